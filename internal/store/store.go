// internal/store/store.go
//
// Persistence interfaces for rooms and users.
// Implementations may be backed by SQLite (production) or memory (tests).
//
// Contract notes:
//   - Create must perform an atomic check-then-insert on the invite code and
//     report clashes as game.ErrConflict; retrying with a fresh code is the
//     caller's job.
//   - Get/GetBy* return game.ErrNotFound for missing rows.
//   - Readers receive their own copy of the room; mutations become visible
//     to others only through Update.
package store

import (
	"context"
	"time"

	"tilerooms/internal/game"
)

// RoomStore persists room aggregates.
type RoomStore interface {
	// Create inserts a new room, enforcing invite-code uniqueness.
	Create(ctx context.Context, r *game.Room) error

	// Get retrieves a room by id.
	Get(ctx context.Context, id string) (*game.Room, error)

	// GetByInviteCode retrieves a room by its invite code.
	GetByInviteCode(ctx context.Context, code string) (*game.Room, error)

	// GetByAdmin retrieves the room owned by the given admin, if any.
	GetByAdmin(ctx context.Context, adminID string) (*game.Room, error)

	// ListPublicWaiting lists joinable rooms: public and still waiting.
	ListPublicWaiting(ctx context.Context) ([]*game.Room, error)

	// Update overwrites the stored aggregate.
	Update(ctx context.Context, r *game.Room) error

	// Delete removes the room.
	Delete(ctx context.Context, id string) error
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
