package library

import "errors"

// Sentinel errors for package library.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// ErrNotDirectory indicates the configured library path is not a directory.
	ErrNotDirectory = errors.New("library path is not a directory")
)
