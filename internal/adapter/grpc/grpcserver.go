package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/wealthflow-payoff/internal/log"
)

// NewGRPCServer builds a grpc.Server with logging and auth interceptors,
// the payoff service, the standard health service and reflection.
// The returned health server reports SERVING for the payoff service; callers
// flip it to NOT_SERVING on shutdown.
func NewGRPCServer(planner PayoffPlanner, apiToken string, logger *log.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentGRPC)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			AuthInterceptor(apiToken),
		),
	)

	RegisterPayoffServiceServer(s, NewServer(planner))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthSrv)

	reflection.Register(s)

	return s, healthSrv
}
