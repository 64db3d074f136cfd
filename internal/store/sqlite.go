// internal/store/sqlite.go
//
// SQLite-backed RoomStore and UserStore.
//
// Rooms are stored as one row per aggregate: the queryable attributes
// (invite code, admin, privacy, status) live in dedicated columns, the full
// aggregate is serialized as JSON into the state column and is the source of
// truth on read. Each Update rewrites both, inside a single statement, so a
// room mutation is atomic at the storage boundary.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tilerooms/internal/game"
)

// SQLite implements RoomStore and UserStore over database/sql.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

/* ------------------------------- rooms --------------------------------- */

func (s *SQLite) Create(ctx context.Context, r *game.Room) error {
	state, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO rooms (id, invite_code, admin_id, is_private, status, state)
        VALUES (?,?,?,?,?,?)`,
		r.ID, r.InviteCode, r.AdminID, boolInt(r.IsPrivate), string(r.Status), string(state),
	)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("invite code %q: %w", r.InviteCode, game.ErrConflict)
	}
	return err
}

func (s *SQLite) Get(ctx context.Context, id string) (*game.Room, error) {
	return s.getRoom(ctx, `SELECT state FROM rooms WHERE id = ?`, id)
}

func (s *SQLite) GetByInviteCode(ctx context.Context, code string) (*game.Room, error) {
	return s.getRoom(ctx, `SELECT state FROM rooms WHERE invite_code = ?`, code)
}

func (s *SQLite) GetByAdmin(ctx context.Context, adminID string) (*game.Room, error) {
	return s.getRoom(ctx, `SELECT state FROM rooms WHERE admin_id = ?`, adminID)
}

func (s *SQLite) ListPublicWaiting(ctx context.Context) ([]*game.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state FROM rooms WHERE is_private = 0 AND status = ?`,
		string(game.StatusWaiting),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*game.Room
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		r := &game.Room{}
		if err := json.Unmarshal([]byte(state), r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Update(ctx context.Context, r *game.Room) error {
	state, err := json.Marshal(r)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE rooms SET admin_id=?, is_private=?, status=?, state=? WHERE id=?`,
		r.AdminID, boolInt(r.IsPrivate), string(r.Status), string(state), r.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return game.ErrNotFound
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id=?`, id)
	return err
}

func (s *SQLite) getRoom(ctx context.Context, query string, arg any) (*game.Room, error) {
	var state string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r := &game.Room{}
	if err := json.Unmarshal([]byte(state), r); err != nil {
		return nil, err
	}
	return r, nil
}

/* ------------------------------- users --------------------------------- */

// SQLiteUsers implements UserStore over the same database handle.
type SQLiteUsers struct {
	db *sql.DB
}

// NewSQLiteUsers wraps an opened database handle.
func NewSQLiteUsers(db *sql.DB) *SQLiteUsers { return &SQLiteUsers{db: db} }

func (s *SQLiteUsers) Create(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("username %q: %w", u.Username, game.ErrConflict)
	}
	return err
}

func (s *SQLiteUsers) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id)
}

func (s *SQLiteUsers) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUser(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`,
		username)
}

func (s *SQLiteUsers) getUser(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	var created string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

/* ------------------------------ helpers -------------------------------- */

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation matches SQLite's constraint failure message without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
