package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "perfpredict.v1.PerformanceService"

// PredictMethod is the full method name of Predict.
const PredictMethod = "/" + ServiceName + "/Predict"

// PerformanceServiceServer is the server API for the performance service. The
// request carries the employee fields by name; the response carries code,
// label, message and model_id.
type PerformanceServiceServer interface {
	Predict(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// PerformanceServiceDesc describes the service for grpc.Server.RegisterService.
var PerformanceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PerformanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Predict",
			Handler:    predictHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "perfpredict/v1/performance.proto",
}

func predictHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(PerformanceServiceServer).Predict(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PerformanceServiceServer).Predict(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

// PerformanceServiceClient is the client API for the performance service.
type PerformanceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPerformanceServiceClient creates a client on cc.
func NewPerformanceServiceClient(cc grpc.ClientConnInterface) *PerformanceServiceClient {
	return &PerformanceServiceClient{cc: cc}
}

// Predict calls PerformanceService.Predict.
func (c *PerformanceServiceClient) Predict(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PredictMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
