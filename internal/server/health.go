package server

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/roster-reports/internal/common"
)

// HealthServiceName is reported alongside the overall ("") status.
const HealthServiceName = "rosterreports.Reports"

// HealthServer exposes grpc.health.v1 and reflection for probes and grpcurl.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	log    *zap.SugaredLogger
}

func NewHealthServer(log *zap.SugaredLogger) *HealthServer {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)
	return &HealthServer{grpc: grpcServer, health: hs, log: common.OrNop(log)}
}

// Serve blocks until Stop is called or lis fails.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.log.Infow("grpc.health.serving", "addr", lis.Addr().String())
	return h.grpc.Serve(lis)
}

// Stop flips every service to NOT_SERVING, then drains the server.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
	h.log.Infow("grpc.health.stopped")
}
