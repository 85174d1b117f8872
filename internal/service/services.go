package service

import (
	"fmt"

	"github.com/MKhiriev/go-strategy-forms/internal/adapter"
	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
)

type Services struct {
	AuthService       AuthService
	SubmissionService SubmissionService
	AppInfoService    AppInfoService

	// GenerationService is nil when no strategy generator is configured.
	GenerationService GenerationService
}

// NewServices wires the services on top of the storages. generator may be
// nil, in which case strategy generation is disabled.
func NewServices(storages *store.Storages, generator adapter.StrategyGenerator, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, storages.Pinger, generator, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	services := &Services{
		AuthService:       NewAuthService(storages.UserRepository, cfg.App, logger),
		SubmissionService: NewSubmissionValidationService().Wrap(NewSubmissionService(storages.SubmissionRepository, logger)),
		AppInfoService:    appInfoService,
	}

	if generator != nil {
		services.GenerationService = NewGenerationService(storages.SubmissionRepository, generator, cfg.Workers.StaleClaimAfter, logger)
	}

	return services, nil
}
