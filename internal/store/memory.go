// internal/store/memory.go
//
// In-memory implementations of RoomStore and UserStore.
// Used in tests and when durability is not required.
//
// Characteristics:
//   - Concurrency-safe via RWMutex.
//   - Rooms are deep-copied on every read and write, so an action that fails
//     after mutating its working copy leaves the stored aggregate untouched,
//     matching the SQLite implementation's behavior.
//   - State is lost when the process restarts.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"tilerooms/internal/game"
)

// MemoryRooms is a map-backed RoomStore.
type MemoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room
}

// NewMemoryRooms constructs an empty in-memory RoomStore.
func NewMemoryRooms() *MemoryRooms {
	return &MemoryRooms{rooms: make(map[string]*game.Room)}
}

func (m *MemoryRooms) Create(ctx context.Context, r *game.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rooms {
		if existing.InviteCode == r.InviteCode {
			return game.ErrConflict
		}
	}
	m.rooms[r.ID] = cloneRoom(r)
	return nil
}

func (m *MemoryRooms) Get(ctx context.Context, id string) (*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rooms[id]; ok {
		return cloneRoom(r), nil
	}
	return nil, game.ErrNotFound
}

func (m *MemoryRooms) GetByInviteCode(ctx context.Context, code string) (*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		if r.InviteCode == code {
			return cloneRoom(r), nil
		}
	}
	return nil, game.ErrNotFound
}

func (m *MemoryRooms) GetByAdmin(ctx context.Context, adminID string) (*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		if r.AdminID == adminID {
			return cloneRoom(r), nil
		}
	}
	return nil, game.ErrNotFound
}

func (m *MemoryRooms) ListPublicWaiting(ctx context.Context) ([]*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*game.Room
	for _, r := range m.rooms {
		if !r.IsPrivate && r.Status == game.StatusWaiting {
			out = append(out, cloneRoom(r))
		}
	}
	return out, nil
}

func (m *MemoryRooms) Update(ctx context.Context, r *game.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[r.ID]; !ok {
		return game.ErrNotFound
	}
	m.rooms[r.ID] = cloneRoom(r)
	return nil
}

func (m *MemoryRooms) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
	return nil
}

// cloneRoom deep-copies via the aggregate's JSON form, the same codec the
// SQLite store persists with.
func cloneRoom(r *game.Room) *game.Room {
	raw, _ := json.Marshal(r)
	out := &game.Room{}
	_ = json.Unmarshal(raw, out)
	return out
}

// MemoryUsers is a map-backed UserStore.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUsers constructs an empty in-memory UserStore.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]*User)}
}

func (m *MemoryUsers) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return game.ErrConflict
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryUsers) GetByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, game.ErrNotFound
}

func (m *MemoryUsers) GetByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, game.ErrNotFound
}
