package grpc

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/ekisa-team/perfpredict/internal/config"
	"github.com/ekisa-team/perfpredict/internal/metrics"
)

// Server serves the performance service, gRPC health and reflection.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	addr       string
}

// NewServer creates the gRPC server and registers every service on it.
func NewServer(cfg config.ListenerConfig, predictor Predictor, m *metrics.Metrics) *Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary))

	s.RegisterService(&PerformanceServiceDesc, NewPerformanceHandler(predictor, m))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)

	return &Server{
		grpcServer: s,
		health:     hs,
		addr:       net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	slog.Info("gRPC server listening", "addr", l.Addr().String())

	return s.grpcServer.Serve(l)
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	return s.Serve(l)
}

// Shutdown marks the server not serving and drains in-flight calls. If ctx
// expires first the remaining calls are cut off.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.grpcServer.Stop()
		return ctx.Err()
	}
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	id := uuid.NewString()

	resp, err := handler(ctx, req)

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "gRPC request",
		"request_id", id,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))

	return resp, err
}
