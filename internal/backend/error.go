package backend

import "errors"

// Error definitions for the backend package.
var (
	ErrNotFound          = errors.New("backend not found in registry")
	ErrAlreadyRegistered = errors.New("backend is already registered in the registry")
	ErrEmptyInput        = errors.New("feature matrix is empty")
	ErrFeatureCount      = errors.New("feature row has the wrong number of columns")
	ErrRowCount          = errors.New("backend returned a different number of predictions than rows")
)
