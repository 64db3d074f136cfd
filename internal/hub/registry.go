// internal/hub/registry.go
//
// Connection registry: the single source of truth for which live sockets
// belong to which room.
//
// Responsibilities:
//   - Associate a socket with a player id inside exactly one room.
//   - Remove a socket from one room, or from every room on socket close.
//   - Resolve the acting player for a (room, socket) pair.
//   - Hand out snapshots for fan-out so nothing writes under the lock.
//
// The registry guards only its own map. Room game state is persisted
// elsewhere and serialized per room by the dispatcher; connect/disconnect
// may therefore race freely with actions on unrelated rooms.
package hub

import (
	"sync"

	"tilerooms/internal/game"
)

// Conn is the minimal socket surface the hub needs. *websocket.Conn from
// gorilla satisfies it; tests plug in fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Target pairs a live socket with the player it authenticated as.
type Target struct {
	PlayerID string
	Conn     Conn
}

// Registry owns the room→connections map.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string][]Target
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string][]Target)}
}

// Add registers a socket as the given player inside a room.
func (g *Registry) Add(roomID, playerID string, c Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rooms[roomID] = append(g.rooms[roomID], Target{PlayerID: playerID, Conn: c})
}

// Remove drops the socket from the given room. An empty roomID drops it from
// every room, which is what socket close needs since the triggering room is
// unknown a priori.
func (g *Registry) Remove(c Conn, roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if roomID != "" {
		g.removeLocked(c, roomID)
		return
	}
	for id := range g.rooms {
		g.removeLocked(c, id)
	}
}

func (g *Registry) removeLocked(c Conn, roomID string) {
	targets := g.rooms[roomID]
	for i, t := range targets {
		if t.Conn == c {
			g.rooms[roomID] = append(targets[:i], targets[i+1:]...)
			break
		}
	}
	if len(g.rooms[roomID]) == 0 {
		delete(g.rooms, roomID)
	}
}

// IsConnected reports whether the socket is registered in the room.
func (g *Registry) IsConnected(roomID string, c Conn) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, t := range g.rooms[roomID] {
		if t.Conn == c {
			return true
		}
	}
	return false
}

// Find resolves the player id a socket authenticated as within a room.
// Fails with game.ErrNotAssociated when the socket never joined it.
func (g *Registry) Find(roomID string, c Conn) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, t := range g.rooms[roomID] {
		if t.Conn == c {
			return t.PlayerID, nil
		}
	}
	return "", game.ErrNotAssociated
}

// RoomOf returns the room a socket is currently registered in, if any.
func (g *Registry) RoomOf(c Conn) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for roomID, targets := range g.rooms {
		for _, t := range targets {
			if t.Conn == c {
				return roomID, true
			}
		}
	}
	return "", false
}

// Snapshot copies the room's current targets so callers can fan out without
// holding the registry lock.
func (g *Registry) Snapshot(roomID string) []Target {
	g.mu.RLock()
	defer g.mu.RUnlock()
	targets := g.rooms[roomID]
	out := make([]Target, len(targets))
	copy(out, targets)
	return out
}

// FindTarget returns the target for a specific player in a room.
func (g *Registry) FindTarget(roomID, playerID string) (Target, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, t := range g.rooms[roomID] {
		if t.PlayerID == playerID {
			return t, true
		}
	}
	return Target{}, false
}
