// Package grpc exposes the standard gRPC health checking protocol for the
// strategy-forms service.
package grpc

import (
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Handler owns the health server. Serving statuses are published by the
// health worker through SetServingStatus.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

func NewHandler(logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		health: health.NewServer(),
		logger: logger,
	}
}

// Register attaches every gRPC service of the handler to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

func (h *Handler) SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus(service, status)
}

// Shutdown switches every service to NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.logger.Debug().Msg("gRPC health set to NOT_SERVING")
	h.health.Shutdown()
}
