package model

import "errors"

// Error definitions for the model package.
var (
	ErrArtifactMissing = errors.New("model artifact not found")
	ErrAlreadyLoaded   = errors.New("model is already loaded")
	ErrNotLoaded       = errors.New("model is not loaded")
	ErrUnknownBackend  = errors.New("unknown model backend")
)
