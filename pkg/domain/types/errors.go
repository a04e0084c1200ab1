package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across repository and use case layers. Callers match
// them with errors.Is; layers add context with goerr.Wrap.
var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = goerr.New("record not found")

	// ErrEmailConflict is returned when an email already belongs to a local
	// account with a different external ID. Never auto-merged.
	ErrEmailConflict = goerr.New("email belongs to another account")

	// ErrInvalidRecord is returned for a malformed inbound sync record
	ErrInvalidRecord = goerr.New("invalid sync record")
)
