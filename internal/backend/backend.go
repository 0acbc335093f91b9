package backend

import (
	"context"
	"time"
)

// BackendProvider is a string identifier for a backend provider.
type BackendProvider string

const (
	// BackendProviderForest evaluates a serialized random forest in-process.
	BackendProviderForest BackendProvider = "forest"

	// BackendProviderCommand runs an external predictor process.
	BackendProviderCommand BackendProvider = "command"
)

// Backend defines the core interface for all inference backends.
type Backend interface {
	// Provider returns the backend identifier.
	Provider() BackendProvider

	// Infer runs the model over a feature matrix and returns one class code per row.
	Infer(ctx context.Context, req *Request) (*Response, error)

	// Close cleans up resources.
	Close() error
}

// FeatureDescriber is an optional interface for backends that know the column
// order their model was trained on.
type FeatureDescriber interface {
	// FeatureNames returns the expected column names in order.
	FeatureNames() []string
}

// Request encapsulates all parameters for an inference call.
type Request struct {
	// ModelPath is the path to the model artifact.
	ModelPath string

	// FeatureNames names the matrix columns, in order.
	FeatureNames []string

	// Features is the input matrix: one row per sample.
	Features [][]float64
}

// Response contains the result of an inference operation.
type Response struct {
	// Codes holds one predicted class code per input row.
	Codes []int

	// Metadata contains backend-specific information.
	Metadata *ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	Timestamp       time.Time       `json:"timestamp"`
	BackendSpecific map[string]any  `json:"backend_specific,omitempty"`
	Provider        BackendProvider `json:"provider"`
	Model           string          `json:"model"`
	DurationSeconds float64         `json:"inference_time_seconds"`
	Rows            int             `json:"rows"`
}
