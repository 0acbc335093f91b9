package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/model"
	"github.com/ekisa-team/perfpredict/internal/profile"
	"github.com/ekisa-team/perfpredict/internal/service"
	"github.com/ekisa-team/perfpredict/mapsafe"
)

// surfaceGRPC labels input rejections from the gRPC surface.
const surfaceGRPC = "grpc"

// Predictor is the prediction service the handler calls.
type Predictor interface {
	Predict(ctx context.Context, p *profile.Profile) (*service.Result, error)
	Model() *model.Instance
}

// PerformanceHandler implements PerformanceServiceServer.
type PerformanceHandler struct {
	predictor Predictor
	metrics   *metrics.Metrics
}

// NewPerformanceHandler creates the gRPC handler.
func NewPerformanceHandler(predictor Predictor, m *metrics.Metrics) *PerformanceHandler {
	return &PerformanceHandler{predictor: predictor, metrics: m}
}

// Predict reads the employee fields from in. Missing fields take their default.
func (h *PerformanceHandler) Predict(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.AsMap()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raw := make(profile.Raw, len(fields))
	var violations []*errdetails.BadRequest_FieldViolation
	for _, k := range keys {
		v, ok := mapsafe.Lookup[int](fields, k)
		if !ok {
			violations = append(violations, &errdetails.BadRequest_FieldViolation{
				Field:       k,
				Description: "must be a whole number",
			})
			continue
		}
		raw[k] = v
	}
	if len(violations) > 0 {
		h.metrics.ObserveInputRejection(surfaceGRPC)
		return nil, invalidArgument("invalid employee input", violations)
	}

	p, err := profile.Collect(raw)
	if err != nil {
		var inputErr *profile.InputError
		if errors.As(err, &inputErr) {
			h.metrics.ObserveInputRejection(surfaceGRPC)
			for _, fe := range inputErr.Fields {
				violations = append(violations, &errdetails.BadRequest_FieldViolation{
					Field:       fe.Field,
					Description: fe.Reason,
				})
			}
			return nil, invalidArgument("invalid employee input", violations)
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	res, err := h.predictor.Predict(ctx, p)
	if err != nil {
		var verr *profile.ValidationError
		switch {
		case errors.As(err, &verr):
			return nil, invalidArgument(verr.Message, []*errdetails.BadRequest_FieldViolation{{
				Field:       string(verr.Rule),
				Description: verr.Message,
			}})
		case errors.Is(err, service.ErrInference):
			slog.Error("Prediction failed", "error", err)
			return nil, status.Error(codes.Internal, service.MsgInferenceFailed)
		default:
			return nil, status.Error(codes.Internal, err.Error())
		}
	}

	out, err := structpb.NewStruct(map[string]any{
		"code":     res.Code,
		"label":    res.Label,
		"message":  fmt.Sprintf("The predicted employee performance is %s", res.Label),
		"model_id": h.predictor.Model().ID,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}

func invalidArgument(msg string, violations []*errdetails.BadRequest_FieldViolation) error {
	st := status.New(codes.InvalidArgument, msg)
	if detailed, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations}); err == nil {
		st = detailed
	}

	return st.Err()
}
