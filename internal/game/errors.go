package game

import "errors"

// Failure buckets surfaced to the acting connection as scoped error events.
// Engine and dispatcher code wraps these with context via fmt.Errorf + %w.
var (
	// ErrInvalidState rejects an action attempted outside its valid room status.
	ErrInvalidState = errors.New("room is not in a valid state for this action")

	// ErrForbidden rejects admin-only actions from non-admins, turn-bound
	// actions out of turn, and the admin kicking themselves.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound reports a missing room, invite code, user, or player.
	ErrNotFound = errors.New("not found")

	// ErrNotAssociated reports a connection acting on a room it never joined.
	ErrNotAssociated = errors.New("connection is not associated with the room")

	// ErrValidation reports a malformed payload (missing field for the action kind).
	ErrValidation = errors.New("invalid payload")

	// ErrConflict reports a uniqueness clash (duplicate admin room, invite code).
	ErrConflict = errors.New("conflict")

	// ErrNotEnoughTiles rejects an exchange when fewer than 7 tiles remain.
	ErrNotEnoughTiles = errors.New("not enough tiles left in the bag")
)

// Word placement rejections. All map to the WordRejected bucket: the move is
// refused and no board or rack mutation is persisted.
var (
	ErrInvalidWord        = errors.New("word is not in the dictionary")
	ErrCenterCellRequired = errors.New("first word must cover the center cell")
	ErrMustCrossExisting  = errors.New("word must cross an existing word on the board")
	ErrCellOccupied       = errors.New("cell is used by another letter")
)
