package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekisa-team/perfpredict/internal/backend"
)

// ErrPredictor is returned when the external predictor reports a failure or
// produces unreadable output.
var ErrPredictor = errors.New("external predictor failed")

// payload is written to the predictor's stdin.
type payload struct {
	ModelPath    string      `json:"model_path"`
	FeatureNames []string    `json:"feature_names"`
	Features     [][]float64 `json:"features"`
}

// result is read from the predictor's stdout.
type result struct {
	Error       string `json:"error,omitempty"`
	Predictions []int  `json:"predictions"`
}

// Backend implements backend.Backend by running an external predictor per call,
// for model artifacts that can only be evaluated by their training toolchain
// (for example a pickled scikit-learn estimator).
type Backend struct {
	executor *backend.Executor
	args     []string
}

// NewBackend creates a command backend for the given binary and fixed arguments.
func NewBackend(binPath string, args []string, timeout time.Duration) (*Backend, error) {
	executor, err := backend.NewExecutor(binPath, timeout)
	if err != nil {
		return nil, err
	}

	return NewBackendWithExecutor(executor, args), nil
}

// NewBackendWithExecutor creates a command backend around an existing executor.
func NewBackendWithExecutor(executor *backend.Executor, args []string) *Backend {
	return &Backend{
		executor: executor,
		args:     append([]string(nil), args...),
	}
}

// Provider returns the backend provider.
func (b *Backend) Provider() backend.BackendProvider {
	return backend.BackendProviderCommand
}

// Infer sends the feature matrix to the predictor and reads back class codes.
func (b *Backend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if len(req.Features) == 0 {
		return nil, backend.ErrEmptyInput
	}

	in, err := json.Marshal(payload{
		ModelPath:    req.ModelPath,
		FeatureNames: req.FeatureNames,
		Features:     req.Features,
	})
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}

	start := time.Now()
	stdout, stderr, err := b.executor.Execute(ctx, b.args, bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: %w\nstderr: %s", ErrPredictor, err, strings.TrimSpace(string(stderr)))
	}

	var out result
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, fmt.Errorf("%w: unreadable output: %w", ErrPredictor, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrPredictor, out.Error)
	}
	if len(out.Predictions) != len(req.Features) {
		return nil, fmt.Errorf("%w: got %d, want %d", backend.ErrRowCount, len(out.Predictions), len(req.Features))
	}

	return &backend.Response{
		Codes: out.Predictions,
		Metadata: &backend.ResponseMetadata{
			Provider:        b.Provider(),
			Model:           req.ModelPath,
			Timestamp:       time.Now(),
			DurationSeconds: time.Since(start).Seconds(),
			Rows:            len(out.Predictions),
			BackendSpecific: map[string]any{
				"bin":    b.executor.BinaryPath(),
				"args":   strings.Join(b.args, " "),
				"stderr": string(stderr),
			},
		},
	}, nil
}

// Close cleans up resources. Each call runs its own process.
func (b *Backend) Close() error {
	return nil
}
