// internal/game/room.go
//
// Room aggregate and lifecycle state machine.
// Responsibilities:
//   - Room identity, configuration, ordered membership, admin ownership.
//   - Status transitions: waiting ⇄ ready → started ⇄ paused → ended,
//     with every transition guarded by its valid source states.
//   - Game-state snapshot for a started game: board, turn order, bag,
//     racks, leaderboard, placed words, skipped-turn streak.
//
// A Room is a plain value; it carries no locks. The dispatcher serializes
// all mutations of one room, and the store persists the whole aggregate
// after each accepted action.
package game

import (
	"math/rand"

	"tilerooms/internal/board"
	"tilerooms/internal/tiles"
)

// Status is the lifecycle state of a room.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusReady   Status = "ready"
	StatusStarted Status = "started"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
)

// SkippedTurnLimit is the consecutive empty-turn streak after which any
// player whose turn it is may suggest ending the game.
const SkippedTurnLimit = 6

// Player is one member of a room. Membership order is join order.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Room is the aggregate root of one game session.
type Room struct {
	ID          string   `json:"id"`
	InviteCode  string   `json:"inviteCode"`
	IsPrivate   bool     `json:"isPrivate"`
	AdminID     string   `json:"adminId"`
	Status      Status   `json:"status"`
	TimePerTurn int      `json:"timePerTurn"`
	MaxPlayers  int      `json:"maxPlayers"`
	Players     []Player `json:"players"`

	// Game state, meaningful only while Status is started or paused.
	Board            string              `json:"board"`
	TurnOrder        []string            `json:"turnOrder"`
	CurrentTurnIndex int                 `json:"currentTurnIndex"`
	TilesLeft        map[string]int      `json:"tilesLeft"`
	Racks            map[string][]string `json:"racks"`
	Leaderboard      map[string]int      `json:"leaderboard"`
	PlacedWords      []string            `json:"placedWords"`
	SkippedTurns     int                 `json:"skippedTurns"`
}

// NewRoom creates a waiting room with the admin as its first member.
func NewRoom(id, inviteCode string, isPrivate bool, admin Player, timePerTurn, maxPlayers int) *Room {
	r := &Room{
		ID:          id,
		InviteCode:  inviteCode,
		IsPrivate:   isPrivate,
		AdminID:     admin.ID,
		Status:      StatusWaiting,
		TimePerTurn: timePerTurn,
		MaxPlayers:  maxPlayers,
		Players:     []Player{admin},
	}
	r.ResetGame()
	return r
}

// ResetGame clears all per-game state. Membership and configuration survive.
func (r *Room) ResetGame() {
	r.Board = ""
	r.TurnOrder = nil
	r.CurrentTurnIndex = 0
	r.TilesLeft = map[string]int{}
	r.Racks = map[string][]string{}
	r.Leaderboard = map[string]int{}
	r.PlacedWords = nil
	r.SkippedTurns = 0
}

// EnsureStatus fails with ErrInvalidState unless the room is in one of the
// given states. Every action handler calls this before mutating anything.
func (r *Room) EnsureStatus(valid ...Status) error {
	for _, s := range valid {
		if r.Status == s {
			return nil
		}
	}
	return ErrInvalidState
}

// IsAdmin reports whether the given player owns the room.
func (r *Room) IsAdmin(playerID string) bool { return r.AdminID == playerID }

// HasPlayer reports whether the given player is a member.
func (r *Room) HasPlayer(playerID string) bool {
	for _, p := range r.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// PlayerName returns the display name of a member, empty if absent.
func (r *Room) PlayerName(playerID string) string {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p.Username
		}
	}
	return ""
}

// AddPlayer appends a member. Only waiting rooms accept new members; filling
// the last seat flips the room to ready.
func (r *Room) AddPlayer(p Player) error {
	if err := r.EnsureStatus(StatusWaiting); err != nil {
		return err
	}
	if r.HasPlayer(p.ID) {
		return ErrConflict
	}
	r.Players = append(r.Players, p)
	if len(r.Players) == r.MaxPlayers {
		r.Status = StatusReady
	}
	return nil
}

// RemovePlayer drops a member from the room roster. Dropping below capacity
// moves ready back to waiting; if the admin left, ownership passes to the
// earliest-joined remaining member. Returns true if the roster is now empty
// (the caller deletes the room).
func (r *Room) RemovePlayer(playerID string) (empty bool) {
	for i, p := range r.Players {
		if p.ID == playerID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	if r.Status == StatusReady && len(r.Players) < r.MaxPlayers {
		r.Status = StatusWaiting
	}
	if r.AdminID == playerID && len(r.Players) > 0 {
		r.AdminID = r.Players[0].ID
	}
	return len(r.Players) == 0
}

// RemoveFromGame additionally unwinds a leaver's in-game state: their rack
// tiles go back to the bag, they vanish from turn order and leaderboard, and
// the turn index is re-wrapped over the shrunk order.
func (r *Room) RemoveFromGame(playerID string) (empty bool) {
	for _, letter := range r.Racks[playerID] {
		r.TilesLeft[letter]++
	}
	delete(r.Racks, playerID)
	delete(r.Leaderboard, playerID)
	for i, id := range r.TurnOrder {
		if id == playerID {
			r.TurnOrder = append(r.TurnOrder[:i], r.TurnOrder[i+1:]...)
			break
		}
	}
	empty = r.RemovePlayer(playerID)
	if len(r.TurnOrder) > 0 {
		r.CurrentTurnIndex %= len(r.TurnOrder)
	} else {
		r.CurrentTurnIndex = 0
	}
	return empty
}

// Start snapshots the roster into a shuffled turn order, seeds the bag,
// deals racks, and moves the room to started. Valid from waiting or ready.
func (r *Room) Start(rng *rand.Rand) error {
	if err := r.EnsureStatus(StatusWaiting, StatusReady); err != nil {
		return err
	}
	r.ResetGame()
	r.Board = board.EmptyBoard()

	order := make([]string, len(r.Players))
	for i, p := range r.Players {
		order[i] = p.ID
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	r.TurnOrder = order

	for _, id := range order {
		r.Leaderboard[id] = 0
	}

	bag := tiles.NewBag(rng)
	r.Racks = bag.DealRacks(order)
	r.TilesLeft = bag.Counts()
	r.Status = StatusStarted
	return nil
}

// CurrentPlayer returns the id whose turn it is. Empty when no game runs.
func (r *Room) CurrentPlayer() string {
	if len(r.TurnOrder) == 0 {
		return ""
	}
	return r.TurnOrder[r.CurrentTurnIndex]
}

// EnsureTurn fails with ErrForbidden unless it is the given player's turn.
func (r *Room) EnsureTurn(playerID string) error {
	if r.CurrentPlayer() != playerID {
		return ErrForbidden
	}
	return nil
}

// AdvanceTurn moves play to the next player in order.
func (r *Room) AdvanceTurn() {
	if len(r.TurnOrder) == 0 {
		return
	}
	r.CurrentTurnIndex = (r.CurrentTurnIndex + 1) % len(r.TurnOrder)
}

// Leader returns the member with the highest cumulative score.
func (r *Room) Leader() string {
	best, bestScore := "", -1
	for id, score := range r.Leaderboard {
		if score > bestScore || (score == bestScore && id < best) {
			best, bestScore = id, score
		}
	}
	return best
}

// BagTotal reports how many tiles remain in the shared bag.
func (r *Room) BagTotal() int {
	total := 0
	for _, n := range r.TilesLeft {
		total += n
	}
	return total
}
