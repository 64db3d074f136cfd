// internal/hub/hub.go
//
// Action dispatcher: the room/session engine behind every socket message.
//
// Control flow per message: decode → resolve the acting player via the
// registry → check preconditions against the room's status → mutate the
// aggregate (bag / word engine / state machine) → persist via the room
// store → fan events out to the room's sockets. Failures never reach other
// players: the triggering connection gets a scoped error event and the
// stored aggregate stays as it was.
//
// Mutations of one room are serialized by a keyed mutex, so the conservation
// and turn-order invariants hold even though connection handlers run
// concurrently. The registry has its own lock and is untouched by an action
// that fails before its close/remove step.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"tilerooms/internal/board"
	"tilerooms/internal/game"
	"tilerooms/internal/store"
	"tilerooms/internal/tiles"
	"tilerooms/internal/words"
)

// Identity is the resolved authenticated player behind a connection.
type Identity struct {
	PlayerID string
	Username string
}

// Hub wires the registry, the room store, and the dictionary together.
type Hub struct {
	registry *Registry
	rooms    store.RoomStore
	dict     words.Dictionary
	rng      *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New constructs a Hub. The rng drives turn-order shuffling and tile draws;
// use NewRand for production and a fixed seed in tests.
func New(registry *Registry, rooms store.RoomStore, dict words.Dictionary, rng *rand.Rand) *Hub {
	return &Hub{
		registry: registry,
		rooms:    rooms,
		dict:     dict,
		rng:      rng,
		locks:    make(map[string]*sync.Mutex),
	}
}

// NewRand returns a time-seeded rand safe for concurrent use across rooms.
func NewRand() *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano()).(rand.Source64)})
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// lockRoom serializes mutations per room id. Cross-room actions proceed in
// parallel.
func (h *Hub) lockRoom(roomID string) func() {
	h.locksMu.Lock()
	l, ok := h.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[roomID] = l
	}
	h.locksMu.Unlock()
	l.Lock()
	return l.Unlock
}

// LockRoom exposes the per-room lock for out-of-band mutations (HTTP joins),
// so they serialize with socket actions on the same room.
func (h *Hub) LockRoom(roomID string) func() { return h.lockRoom(roomID) }

// releaseRoomLock drops a deleted room's mutex entry so the keyed map does
// not grow with every room ever created.
func (h *Hub) releaseRoomLock(roomID string) {
	h.locksMu.Lock()
	delete(h.locks, roomID)
	h.locksMu.Unlock()
}

// Registry exposes the connection registry, mainly for the socket layer.
func (h *Hub) Registry() *Registry { return h.registry }

/* ----------------------------- entry points ----------------------------- */

// HandleMessage processes one inbound action from a connection. Every
// failure is delivered back to that connection only.
func (h *Hub) HandleMessage(ctx context.Context, c Conn, ident Identity, raw []byte) {
	var msg Incoming
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, "unable to decode message")
		return
	}
	if msg.RoomID == "" {
		h.sendError(c, "roomID is required")
		return
	}

	var err error
	switch msg.Action {
	case ActionJoinRoom:
		err = h.handleJoinRoom(ctx, c, ident, msg.RoomID)
	case ActionChangeRoomPrivacy:
		err = h.handleChangePrivacy(ctx, c, msg.RoomID)
	case ActionKickPlayer:
		if msg.KickPlayerID == "" {
			err = fmt.Errorf("kickPlayerID is missing: %w", game.ErrValidation)
			break
		}
		err = h.handleKickPlayer(ctx, c, msg.RoomID, msg.KickPlayerID)
	case ActionLeaveRoom:
		err = h.handleLeaveRoom(ctx, c, msg.RoomID)
	case ActionStartGame:
		err = h.handleStartGame(ctx, c, msg.RoomID)
	case ActionPauseGame:
		err = h.handlePauseGame(ctx, c, msg.RoomID)
	case ActionResumeGame:
		err = h.handleResumeGame(ctx, c, msg.RoomID)
	case ActionEndTurn:
		err = h.handleEndTurn(ctx, c, msg.RoomID, false)
	case ActionSkipTurn:
		err = h.handleEndTurn(ctx, c, msg.RoomID, true)
	case ActionExchangeTiles:
		if len(msg.ChangingTiles) == 0 {
			err = fmt.Errorf("changingTiles are missing: %w", game.ErrValidation)
			break
		}
		err = h.handleExchangeTiles(ctx, c, msg.RoomID, msg.ChangingTiles)
	case ActionSuggestEndGame:
		err = h.handleEndGameSuggestion(ctx, c, msg.RoomID)
	case ActionPlaceWord:
		if msg.Direction == "" || len(msg.Letters) == 0 {
			err = fmt.Errorf("direction or letters are missing: %w", game.ErrValidation)
			break
		}
		err = h.handlePlaceWord(ctx, c, msg.RoomID, msg.Direction, msg.Letters)
	case ActionLeaveGame:
		err = h.handleLeaveGame(ctx, c, msg.RoomID)
	case ActionSendReaction:
		if msg.Reaction == "" || utf8.RuneCountInString(msg.Reaction) > MaxReactionLen {
			err = fmt.Errorf("reaction is missing or too long: %w", game.ErrValidation)
			break
		}
		err = h.handleSendReaction(ctx, c, msg.RoomID, msg.Reaction)
	default:
		err = fmt.Errorf("unknown action %q: %w", msg.Action, game.ErrValidation)
	}

	if err != nil {
		log.Debug().Str("room", msg.RoomID).Str("action", string(msg.Action)).
			Err(err).Msg("action rejected")
		h.sendError(c, err.Error())
	}
}

// HandleClose reconciles membership after a socket dies. The room is
// resolved through the registry since the client can no longer tell us;
// depending on room status the close counts as leaving the room or the game.
func (h *Hub) HandleClose(ctx context.Context, c Conn) {
	roomID, ok := h.registry.RoomOf(c)
	if !ok {
		return
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		h.registry.Remove(c, "")
		return
	}

	if room.Status == game.StatusWaiting || room.Status == game.StatusReady {
		err = h.handleLeaveRoom(ctx, c, roomID)
	} else {
		err = h.handleLeaveGame(ctx, c, roomID)
	}
	if err != nil {
		log.Debug().Str("room", roomID).Err(err).Msg("close reconciliation failed")
		h.registry.Remove(c, "")
	}
}

/* ---------------------------- room membership ---------------------------- */

func (h *Hub) handleJoinRoom(ctx context.Context, c Conn, ident Identity, roomID string) error {
	defer h.lockRoom(roomID)()

	if h.registry.IsConnected(roomID, c) {
		return fmt.Errorf("socket is already connected to the room: %w", game.ErrConflict)
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasPlayer(ident.PlayerID) {
		return fmt.Errorf("user is not a player in this room: %w", game.ErrNotAssociated)
	}

	h.registry.Add(roomID, ident.PlayerID, c)
	h.send(c, Outgoing{Event: EventJoinedRoom})
	h.broadcastExcept(roomID, c, Outgoing{
		Event:         EventPlayerJoined,
		NewPlayerInfo: &PlayerInfo{ID: ident.PlayerID, Name: room.PlayerName(ident.PlayerID)},
	})

	if len(room.Players) == room.MaxPlayers {
		if t, ok := h.registry.FindTarget(roomID, room.AdminID); ok && t.Conn != c {
			h.send(t.Conn, Outgoing{Event: EventRoomReady})
		}
	}
	return nil
}

func (h *Hub) handleChangePrivacy(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(playerID) {
		return fmt.Errorf("only the admin can change room privacy: %w", game.ErrForbidden)
	}
	if err := room.EnsureStatus(game.StatusWaiting, game.StatusReady); err != nil {
		return err
	}

	room.IsPrivate = !room.IsPrivate
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}
	h.broadcast(roomID, Outgoing{Event: EventRoomChangedPrivacy, NewRoomPrivacy: &room.IsPrivate})
	return nil
}

func (h *Hub) handleKickPlayer(ctx context.Context, c Conn, roomID, kickPlayerID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(playerID) {
		return fmt.Errorf("only the admin can kick players: %w", game.ErrForbidden)
	}
	if kickPlayerID == playerID {
		return fmt.Errorf("the admin cannot kick themselves: %w", game.ErrForbidden)
	}
	if err := room.EnsureStatus(game.StatusWaiting, game.StatusReady, game.StatusStarted, game.StatusPaused); err != nil {
		return err
	}
	if !room.HasPlayer(kickPlayerID) {
		return fmt.Errorf("the specified player is not part of the room: %w", game.ErrNotFound)
	}

	prevStatus := room.Status
	inGame := room.Status == game.StatusStarted || room.Status == game.StatusPaused
	if inGame {
		room.RemoveFromGame(kickPlayerID)
	} else {
		room.RemovePlayer(kickPlayerID)
	}
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}

	if t, ok := h.registry.FindTarget(roomID, kickPlayerID); ok {
		h.send(t.Conn, Outgoing{Event: EventKickedByAdmin})
		_ = t.Conn.Close()
		h.registry.Remove(t.Conn, roomID)
	}

	out := Outgoing{Event: EventPlayerKicked, KickedPlayerID: kickPlayerID}
	if inGame {
		out.CurrentTurn = room.CurrentPlayer()
	}
	h.broadcast(roomID, out)

	if room.Status != prevStatus && room.Status == game.StatusWaiting {
		if t, ok := h.registry.FindTarget(roomID, room.AdminID); ok {
			h.send(t.Conn, Outgoing{Event: EventRoomWaiting})
		}
	}

	if inGame && len(room.Players) == 1 {
		return h.finishGame(ctx, room, room.Players[0].ID, EventGameEndedSoloInRoom)
	}
	return nil
}

func (h *Hub) handleLeaveRoom(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.EnsureStatus(game.StatusWaiting, game.StatusReady); err != nil {
		return err
	}

	prevStatus := room.Status
	adminLeft := room.IsAdmin(playerID)
	empty := room.RemovePlayer(playerID)

	if empty {
		if err := h.rooms.Delete(ctx, roomID); err != nil {
			return err
		}
	} else if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}

	h.send(c, Outgoing{Event: EventLeftRoom})
	_ = c.Close()
	h.registry.Remove(c, roomID)

	if empty {
		h.closeRoomConnections(roomID)
		return nil
	}

	out := Outgoing{Event: EventPlayerLeftRoom, LeftPlayerID: playerID}
	if adminLeft {
		out.NewAdminID = room.AdminID
	}
	h.broadcast(roomID, out)

	if room.Status != prevStatus {
		if t, ok := h.registry.FindTarget(roomID, room.AdminID); ok {
			h.send(t.Conn, Outgoing{Event: EventRoomWaiting})
		}
	}
	return nil
}

/* ------------------------------ game control ----------------------------- */

func (h *Hub) handleStartGame(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(playerID) {
		return fmt.Errorf("only the admin can start the game: %w", game.ErrForbidden)
	}
	if err := room.Start(h.rng); err != nil {
		return err
	}
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}

	for _, id := range room.TurnOrder {
		t, ok := h.registry.FindTarget(roomID, id)
		if !ok {
			continue
		}
		h.send(t.Conn, Outgoing{
			Event:       EventGameStarted,
			BoardLayout: board.CopyLayout(),
			CurrentTurn: room.CurrentPlayer(),
			PlayerTiles: room.Racks[id],
		})
	}
	log.Info().Str("room", roomID).Int("players", len(room.Players)).Msg("game started")
	return nil
}

func (h *Hub) handlePauseGame(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(playerID) {
		return fmt.Errorf("only the admin can pause the game: %w", game.ErrForbidden)
	}
	if err := room.EnsureStatus(game.StatusStarted); err != nil {
		return err
	}

	room.Status = game.StatusPaused
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}
	h.broadcast(roomID, Outgoing{Event: EventGamePaused})
	return nil
}

func (h *Hub) handleResumeGame(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsAdmin(playerID) {
		return fmt.Errorf("only the admin can resume the game: %w", game.ErrForbidden)
	}
	if err := room.EnsureStatus(game.StatusPaused); err != nil {
		return err
	}

	room.Status = game.StatusStarted
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}
	h.broadcast(roomID, Outgoing{Event: EventGameResumed, CurrentTurn: room.CurrentPlayer()})
	return nil
}

/* -------------------------------- turns ---------------------------------- */

func (h *Hub) handleEndTurn(ctx context.Context, c Conn, roomID string, emptyTurn bool) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.EnsureStatus(game.StatusStarted); err != nil {
		return err
	}
	if err := room.EnsureTurn(playerID); err != nil {
		return fmt.Errorf("it is another player's turn: %w", err)
	}

	if emptyTurn {
		room.SkippedTurns++
	} else {
		room.SkippedTurns = 0
	}
	room.AdvanceTurn()
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}

	h.send(c, Outgoing{
		Event:       EventEndedTurn,
		CurrentTurn: room.CurrentPlayer(),
		PlayerTiles: room.Racks[playerID],
	})
	h.broadcastExcept(roomID, c, Outgoing{
		Event:             EventPlayerEndedTurn,
		EndedTurnPlayerID: playerID,
		CurrentTurn:       room.CurrentPlayer(),
	})
	return nil
}

func (h *Hub) handleExchangeTiles(ctx context.Context, c Conn, roomID string, changing []int) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.EnsureStatus(game.StatusStarted); err != nil {
		return err
	}
	if err := room.EnsureTurn(playerID); err != nil {
		return fmt.Errorf("it is another player's turn: %w", err)
	}
	if room.BagTotal() < tiles.RackSize {
		return fmt.Errorf("at least %d tiles must remain in the bag: %w", tiles.RackSize, game.ErrNotEnoughTiles)
	}
	if len(changing) > tiles.RackSize {
		return fmt.Errorf("between 1 and %d tiles can be exchanged: %w", tiles.RackSize, game.ErrValidation)
	}
	rack := room.Racks[playerID]
	seen := make(map[int]bool, len(changing))
	for _, idx := range changing {
		if idx < 0 || idx >= len(rack) {
			return fmt.Errorf("rack slot %d is out of range: %w", idx, game.ErrValidation)
		}
		// A repeated slot would return one tile but draw two, corrupting the
		// bag's letter totals.
		if seen[idx] {
			return fmt.Errorf("rack slot %d is selected twice: %w", idx, game.ErrValidation)
		}
		seen[idx] = true
	}

	// Outgoing tiles re-enter the shared pool before the draw, so a player
	// can redraw what they just returned. Known quirk, kept on purpose.
	bag := tiles.NewBagFrom(room.TilesLeft, h.rng)
	for _, idx := range changing {
		bag.Return(rack[idx])
	}
	newRack := bag.Refill(rack, changing)

	room.Racks[playerID] = newRack
	room.TilesLeft = bag.Counts()
	room.AdvanceTurn()
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}

	h.send(c, Outgoing{
		Event:       EventExchangedTiles,
		CurrentTurn: room.CurrentPlayer(),
		PlayerTiles: newRack,
	})
	h.broadcastExcept(roomID, c, Outgoing{
		Event:                  EventPlayerExchangedTiles,
		ExchangedTilesPlayerID: playerID,
		CurrentTurn:            room.CurrentPlayer(),
	})
	return nil
}

func (h *Hub) handlePlaceWord(ctx context.Context, c Conn, roomID string, dir game.Direction, letters []game.LetterPlacement) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.EnsureStatus(game.StatusStarted); err != nil {
		return err
	}
	if err := room.EnsureTurn(playerID); err != nil {
		return fmt.Errorf("it is another player's turn: %w", err)
	}
	if dir != game.Horizontal && dir != game.Vertical {
		return fmt.Errorf("unknown direction %q: %w", dir, game.ErrValidation)
	}
	rack := room.Racks[playerID]
	if err := game.ValidatePlacements(letters, len(rack)); err != nil {
		return err
	}

	word := game.BuildWord(letters, rack, dir)
	valid, err := h.dict.IsValid(ctx, word)
	if err != nil {
		return fmt.Errorf("dictionary lookup failed: %w", err)
	}
	if !valid {
		return fmt.Errorf("the word %q is invalid: %w", word, game.ErrInvalidWord)
	}

	if len(room.PlacedWords) == 0 {
		if err := game.ValidateFirstPlacement(letters); err != nil {
			return err
		}
	}

	newBoard, reused, err := game.PlaceLetters(letters, rack, room.Board)
	if err != nil {
		return err
	}
	if len(room.PlacedWords) > 0 && reused == 0 {
		return game.ErrMustCrossExisting
	}
	if cross := game.FindAllWords(letters, dir, newBoard); len(cross) > 0 {
		log.Debug().Str("room", roomID).Strs("crossWords", cross).Msg("incidental words formed")
	}

	bag := tiles.NewBagFrom(room.TilesLeft, h.rng)
	newRack := bag.Refill(rack, game.TileIndexes(letters))
	score := game.CalculateScore(letters, newBoard, tiles.Weights())

	room.Board = newBoard
	room.Racks[playerID] = newRack
	room.TilesLeft = bag.Counts()
	room.Leaderboard[playerID] += score
	room.PlacedWords = append(room.PlacedWords, word)
	room.SkippedTurns = 0

	// Natural win: rack and bag both exhausted by this placement.
	if len(newRack) == 0 && bag.Empty() {
		return h.finishGame(ctx, room, playerID, EventGameEndedPlayerWon)
	}

	room.AdvanceTurn()
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}

	h.send(c, Outgoing{
		Event:        EventPlacedWord,
		NewWord:      word,
		ScoredPoints: &score,
		PlayerTiles:  newRack,
		CurrentTurn:  room.CurrentPlayer(),
	})
	h.broadcastExcept(roomID, c, Outgoing{
		Event:              EventPlayerPlacedWord,
		PlacedWordPlayerID: playerID,
		NewWord:            word,
		CurrentTurn:        room.CurrentPlayer(),
	})
	return nil
}

func (h *Hub) handleEndGameSuggestion(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.EnsureStatus(game.StatusStarted); err != nil {
		return err
	}
	if err := room.EnsureTurn(playerID); err != nil {
		return fmt.Errorf("it is another player's turn: %w", err)
	}
	if room.SkippedTurns < game.SkippedTurnLimit {
		return fmt.Errorf("the game cannot end before %d consecutive skipped turns: %w",
			game.SkippedTurnLimit, game.ErrInvalidState)
	}
	return h.finishGame(ctx, room, room.Leader(), EventGameEndedEmptyTurns)
}

func (h *Hub) handleLeaveGame(ctx context.Context, c Conn, roomID string) error {
	defer h.lockRoom(roomID)()

	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.EnsureStatus(game.StatusStarted, game.StatusPaused); err != nil {
		return err
	}

	adminLeft := room.IsAdmin(playerID)
	empty := room.RemoveFromGame(playerID)

	if empty {
		if err := h.rooms.Delete(ctx, roomID); err != nil {
			return err
		}
		h.send(c, Outgoing{Event: EventLeftGame})
		_ = c.Close()
		h.registry.Remove(c, roomID)
		h.closeRoomConnections(roomID)
		return nil
	}

	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}
	h.send(c, Outgoing{Event: EventLeftGame})
	_ = c.Close()
	h.registry.Remove(c, roomID)

	out := Outgoing{
		Event:        EventPlayerLeftGame,
		LeftPlayerID: playerID,
		CurrentTurn:  room.CurrentPlayer(),
	}
	if adminLeft {
		out.NewAdminID = room.AdminID
	}
	h.broadcast(roomID, out)

	if len(room.Players) == 1 {
		return h.finishGame(ctx, room, room.Players[0].ID, EventGameEndedSoloInRoom)
	}
	return nil
}

func (h *Hub) handleSendReaction(ctx context.Context, c Conn, roomID, reaction string) error {
	playerID, err := h.registry.Find(roomID, c)
	if err != nil {
		return err
	}
	h.broadcast(roomID, Outgoing{
		Event:    EventReactionSent,
		Reaction: reaction,
		SenderID: playerID,
	})
	return nil
}

/* ------------------------------- internals -------------------------------- */

// finishGame declares a winner, resets the room to waiting, persists, and
// notifies everyone. Membership survives; only game state is cleared.
func (h *Hub) finishGame(ctx context.Context, room *game.Room, winnerID string, event Event) error {
	room.Status = game.StatusWaiting
	room.ResetGame()
	if err := h.rooms.Update(ctx, room); err != nil {
		return err
	}
	h.broadcast(room.ID, Outgoing{Event: event, WinnerID: winnerID})
	log.Info().Str("room", room.ID).Str("winner", winnerID).Str("event", string(event)).
		Msg("game finished")
	return nil
}

// closeRoomConnections closes and unregisters every socket still attached
// to a deleted room, and retires the room's mutex entry.
func (h *Hub) closeRoomConnections(roomID string) {
	for _, t := range h.registry.Snapshot(roomID) {
		_ = t.Conn.Close()
		h.registry.Remove(t.Conn, roomID)
	}
	h.releaseRoomLock(roomID)
}

// send delivers one event to one socket, best-effort: a dead socket is
// reconciled later by its close callback, not here.
func (h *Hub) send(c Conn, out Outgoing) {
	if err := c.WriteJSON(out); err != nil {
		log.Debug().Err(err).Str("event", string(out.Event)).Msg("dropped outbound event")
	}
}

func (h *Hub) sendError(c Conn, message string) {
	h.send(c, Outgoing{Event: EventError, ErrorMessage: message})
}

func (h *Hub) broadcast(roomID string, out Outgoing) {
	for _, t := range h.registry.Snapshot(roomID) {
		h.send(t.Conn, out)
	}
}

func (h *Hub) broadcastExcept(roomID string, except Conn, out Outgoing) {
	for _, t := range h.registry.Snapshot(roomID) {
		if t.Conn == except {
			continue
		}
		h.send(t.Conn, out)
	}
}
