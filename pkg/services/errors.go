package services

import "errors"

// Error taxonomy surfaced to the handler boundary. Handlers map these to
// HTTP statuses with errors.Is; everything else propagates as a 500.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyExists    = errors.New("already exists")
)
