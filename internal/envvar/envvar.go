package envvar

const (
	// PerfpredictEnv is the environment variable used to determine the environment
	PerfpredictEnv = "PERFPREDICT_ENV"

	// PerfpredictServerHTTPPort is the environment variable used to determine the HTTP port
	PerfpredictServerHTTPPort = "PERFPREDICT_SERVER_HTTP_PORT"

	// PerfpredictServerGRPCPort is the environment variable used to determine the gRPC port
	PerfpredictServerGRPCPort = "PERFPREDICT_SERVER_GRPC_PORT"

	// PerfpredictModelPath is the environment variable used to override the model artifact path
	PerfpredictModelPath = "PERFPREDICT_MODEL_PATH"
)
