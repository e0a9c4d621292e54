package repository

import "errors"

// Sentinel domain errors. Handlers map them to HTTP statuses with
// errors.Is; everything else is treated as an internal failure.
var (
	// ErrValidation marks a missing or invalid required field.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks an addressed entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation rejected by a data invariant, such as
	// deleting a folder that still owns decks.
	ErrConflict = errors.New("conflict")

	// ErrStorage marks a backend failure. The underlying cause is logged
	// server-side and never leaks verbatim to clients.
	ErrStorage = errors.New("storage failure")
)
