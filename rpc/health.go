package rpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/wfunc/sugoroku/logger"
)

// ServiceName is the name probes pass to grpc.health.v1.Health/Check.
const ServiceName = "sugoroku"

// HealthServer exposes the standard gRPC health service for orchestrators.
type HealthServer struct {
	listener net.Listener
	grpc     *grpc.Server
	health   *health.Server
}

func NewHealthServer(addr string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	h := &HealthServer{listener: listener, grpc: gs, health: hs}
	h.SetServing(true)
	return h, nil
}

func (h *HealthServer) Addr() net.Addr {
	return h.listener.Addr()
}

// Start serves until Stop is called.
func (h *HealthServer) Start() {
	logger.Log.Infof("gRPC health server listening on %s", h.listener.Addr())
	if err := h.grpc.Serve(h.listener); err != nil {
		logger.Log.Errorf("gRPC health server stopped: %v", err)
	}
}

// SetServing flips both the overall and the named service status.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

func (h *HealthServer) Stop() {
	logger.Log.Info("Stopping gRPC health server.")
	h.health.Shutdown()
	h.grpc.GracefulStop()
}
