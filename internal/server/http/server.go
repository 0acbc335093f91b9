package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/ekisa-team/perfpredict/internal/config"
	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/model"
	"github.com/ekisa-team/perfpredict/internal/profile"
	"github.com/ekisa-team/perfpredict/internal/service"
)

// Predictor is the prediction service the handlers call.
type Predictor interface {
	Predict(ctx context.Context, p *profile.Profile) (*service.Result, error)
	Model() *model.Instance
}

// Server serves the HTML form, the JSON API, health and metrics.
type Server struct {
	httpServer *http.Server
	api        huma.API
}

// NewServer wires every route on a single mux. m may be nil, in which case
// /metrics is not served.
func NewServer(cfg config.ListenerConfig, predictor Predictor, m *metrics.Metrics) (*Server, error) {
	mux := http.NewServeMux()

	api := humago.New(mux, huma.DefaultConfig("Employee Performance Prediction API", "1.0.0"))
	NewPredictionHandler(api, predictor, m)
	NewHealthHandler(api, predictor)

	if _, err := NewFormHandler(mux, predictor, m); err != nil {
		return nil, err
	}

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return &Server{
		api: api,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           withRequestLogging(mux),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// API returns the huma API the JSON operations are registered on.
func (s *Server) API() huma.API {
	return s.api
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	slog.Info("HTTP server listening", "addr", l.Addr().String())

	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	return s.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
