package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

type HealthOutput struct {
	Body struct {
		Status   string    `json:"status"`
		ModelID  string    `json:"model_id"`
		Provider string    `json:"provider"`
		Digest   string    `json:"sha256"`
		LoadedAt time.Time `json:"loaded_at"`
	}
}

// HealthHandler reports whether the model is loaded.
type HealthHandler struct {
	predictor Predictor
}

// NewHealthHandler registers the health operation on api.
func NewHealthHandler(api huma.API, predictor Predictor) *HealthHandler {
	h := &HealthHandler{predictor: predictor}

	huma.Register(api, huma.Operation{
		OperationID: "healthz",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Report service health",
		Tags:        []string{"health"},
	}, h.handleHealth)

	return h
}

func (h *HealthHandler) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	m := h.predictor.Model()
	if m == nil {
		return nil, huma.Error503ServiceUnavailable("model not loaded")
	}

	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.ModelID = m.ID
	out.Body.Provider = string(m.Provider)
	out.Body.Digest = m.Digest
	out.Body.LoadedAt = m.LoadedAt

	return out, nil
}
