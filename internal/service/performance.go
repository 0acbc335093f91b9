package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ekisa-team/perfpredict/internal/backend"
	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/model"
	"github.com/ekisa-team/perfpredict/internal/profile"
)

// Result is a single prediction.
type Result struct {
	Label string `json:"label"`
	Code  int    `json:"code"`
}

// Performance predicts an employee's performance rating with the loaded model.
type Performance struct {
	backends *backend.Registry
	instance *model.Instance
	metrics  *metrics.Metrics
}

// NewPerformance creates the prediction service for a loaded model. When the
// model describes its feature columns they must equal FeatureNames. m may be nil.
func NewPerformance(backends *backend.Registry, instance *model.Instance, m *metrics.Metrics) (*Performance, error) {
	if instance == nil {
		return nil, model.ErrNotLoaded
	}

	if _, ok := backends.Get(instance.Provider); !ok {
		return nil, fmt.Errorf("%w: %s", backend.ErrNotFound, instance.Provider)
	}

	if len(instance.Features) > 0 && !slices.Equal(instance.Features, FeatureNames) {
		return nil, fmt.Errorf("%w: model expects %v", ErrFeatureContract, instance.Features)
	}

	return &Performance{
		backends: backends,
		instance: instance,
		metrics:  m,
	}, nil
}

// Model returns the instance the service predicts with.
func (s *Performance) Model() *model.Instance {
	return s.instance
}

// Predict validates p, runs the model on its feature vector and maps the class
// code to a label. A *profile.ValidationError is returned without invoking the model.
func (s *Performance) Predict(ctx context.Context, p *profile.Profile) (*Result, error) {
	if p == nil {
		return nil, ErrNilProfile
	}

	if err := p.Validate(); err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			s.metrics.ObserveValidationFailure(string(verr.Rule))
		}
		return nil, err
	}

	b, ok := s.backends.Get(s.instance.Provider)
	if !ok {
		return nil, &InferenceError{Err: fmt.Errorf("%w: %s", backend.ErrNotFound, s.instance.Provider)}
	}

	vec := Features(p)
	req := &backend.Request{
		ModelPath:    s.instance.Path,
		FeatureNames: FeatureNames,
		Features:     [][]float64{vec.Values()},
	}

	start := time.Now()
	resp, err := b.Infer(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveInferenceError(elapsed)
		slog.Error("Inference failed", "provider", s.instance.Provider, "error", err)
		return nil, &InferenceError{Err: err}
	}

	if resp == nil || len(resp.Codes) != 1 {
		s.metrics.ObserveInferenceError(elapsed)
		n := 0
		if resp != nil {
			n = len(resp.Codes)
		}
		return nil, &InferenceError{Err: fmt.Errorf("%w: got %d, want 1", backend.ErrRowCount, n)}
	}

	code := resp.Codes[0]
	result := &Result{Code: code, Label: LabelFor(code)}
	s.metrics.ObservePrediction(result.Label, elapsed)

	slog.Debug("Prediction served",
		"model_id", s.instance.ID,
		"code", result.Code,
		"label", result.Label,
		"duration", elapsed)

	return result, nil
}
