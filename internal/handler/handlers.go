package handler

import (
	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/handler/grpc"
	"github.com/MKhiriev/go-strategy-forms/internal/handler/http"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
)

// Handlers groups the transport handlers enabled by the server configuration.
// HTTP serves the REST API. GRPC serves the health checking protocol.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg, logger)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
