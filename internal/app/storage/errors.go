package storage

import "errors"

// Sentinel errors shared by all backends. Backends wrap these with entity
// context so callers can test with errors.Is regardless of the store in use.
var (
	// ErrNotFound reports that a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate reports a uniqueness violation (email, referral code,
	// ad view for the same day).
	ErrDuplicate = errors.New("already exists")

	// ErrAlreadyResolved reports a guarded status transition whose record is
	// no longer in the expected source state.
	ErrAlreadyResolved = errors.New("already resolved")

	// ErrInsufficientFunds reports a balance adjustment that would take a
	// wallet below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalid reports caller-supplied input that fails validation.
	// Services wrap it so transports can distinguish bad requests from
	// internal failures.
	ErrInvalid = errors.New("invalid input")
)
