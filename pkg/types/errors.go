package types

import "errors"

// Domain errors for document lifecycle
var (
	// Registry errors
	ErrAlreadyRegistered = errors.New("document already registered")
	ErrNotRegistered     = errors.New("document not registered")
)
