package service

import (
	"errors"
	"fmt"
)

// Error definitions for the service package.
var (
	ErrInference       = errors.New("model inference failed")
	ErrFeatureContract = errors.New("model feature columns do not match the feature vector")
	ErrNilProfile      = errors.New("profile is nil")
)

// MsgInferenceFailed is the user-facing text for any inference failure.
const MsgInferenceFailed = "The model could not produce a prediction. Please try again."

// InferenceError wraps a failed model invocation. The request itself was valid,
// so the caller may retry it.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInference, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInference) match.
func (e *InferenceError) Is(target error) bool {
	return target == ErrInference
}

// Retryable reports whether the same request may succeed later.
func (e *InferenceError) Retryable() bool {
	return true
}
