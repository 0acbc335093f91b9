package forest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ekisa-team/perfpredict/internal/backend"
)

// ErrFeatureOrder is returned when a request names its columns differently
// from the order the forest was trained on.
var ErrFeatureOrder = errors.New("feature columns do not match the model")

// Backend implements backend.Backend for a random forest artifact held in memory.
type Backend struct {
	forest *Forest
	path   string
}

// NewBackend loads the artifact at path once. The forest is read-only afterwards.
func NewBackend(path string) (*Backend, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}

	return &Backend{forest: New(a), path: path}, nil
}

// Provider returns the backend provider.
func (b *Backend) Provider() backend.BackendProvider {
	return backend.BackendProviderForest
}

// FeatureNames returns the training column order.
func (b *Backend) FeatureNames() []string {
	return b.forest.Features()
}

// Infer predicts one class code per feature row.
func (b *Backend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.FeatureNames != nil && !slices.Equal(req.FeatureNames, b.forest.features) {
		return nil, fmt.Errorf("%w: got %v", ErrFeatureOrder, req.FeatureNames)
	}

	start := time.Now()
	codes, err := b.forest.Predict(req.Features)
	if err != nil {
		return nil, err
	}

	return &backend.Response{
		Codes: codes,
		Metadata: &backend.ResponseMetadata{
			Provider:        b.Provider(),
			Model:           b.path,
			Timestamp:       time.Now(),
			DurationSeconds: time.Since(start).Seconds(),
			Rows:            len(codes),
			BackendSpecific: map[string]any{
				"trees":   len(b.forest.trees),
				"classes": b.forest.Classes(),
			},
		},
	}, nil
}

// Close cleans up resources. The forest holds no external resources.
func (b *Backend) Close() error {
	return nil
}
