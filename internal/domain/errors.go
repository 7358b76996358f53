package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency. Every failed
// operation leaves the prior state untouched.

var (
	// ErrNotFound is returned for unknown child, parent, or catalog ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange covers counts outside 0..goal, malformed dates and
	// unknown enum values (tier, poop type, habit kind, gender).
	ErrInvalidRange = errors.New("value out of range")

	// ErrInsufficientTickets is returned by a gacha pull with a zero balance.
	ErrInsufficientTickets = errors.New("insufficient tickets")

	// ErrPreconditionFailed is returned when an operation's input state does
	// not allow it, e.g. a draw against an empty catalog.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrVersionConflict is returned when a compare-and-swap write lost
	// against a concurrent writer.
	ErrVersionConflict = errors.New("version conflict")

	// ErrUsernameTaken is returned when signing up with a username that
	// already belongs to a child or a parent.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned by login for an unknown username or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
