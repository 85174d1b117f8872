package service

import (
	"context"

	"github.com/MKhiriev/go-strategy-forms/internal/adapter"
	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
	"github.com/MKhiriev/go-strategy-forms/models"
)

type appInfoService struct {
	appVersion string

	pinger store.Pinger

	// generator is nil when strategy generation is disabled.
	generator adapter.StrategyGenerator

	logger *logger.Logger
}

func NewAppInfoService(cfg config.App, pinger store.Pinger, generator adapter.StrategyGenerator, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		pinger:     pinger,
		generator:  generator,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

// Health is "unavailable" when the database cannot be reached and
// "degraded" when only the strategy generator is down.
func (s *appInfoService) Health(ctx context.Context) models.HealthStatus {
	log := logger.FromContext(ctx)

	status := models.HealthStatus{
		Status:            models.HealthOK,
		Database:          models.HealthOK,
		StrategyGenerator: models.HealthDisabled,
	}

	if err := s.pinger.Ping(ctx); err != nil {
		log.Err(err).Str("func", "appInfoService.Health").Msg("database is unreachable")
		status.Status = models.HealthDown
		status.Database = models.HealthDown
	}

	if s.generator == nil {
		return status
	}

	if err := s.generator.Health(ctx); err != nil {
		log.Warn().Err(err).Str("func", "appInfoService.Health").Msg("strategy generator is unhealthy")
		status.StrategyGenerator = models.HealthDown
		if status.Status == models.HealthOK {
			status.Status = models.HealthDegraded
		}
		return status
	}

	status.StrategyGenerator = models.HealthOK
	return status
}
