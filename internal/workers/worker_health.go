package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
	"github.com/MKhiriev/go-strategy-forms/models"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// StrategyGeneratorHealthService is the gRPC health service name that
// reports the strategy generator separately from the server as a whole.
const StrategyGeneratorHealthService = "strategy_forms.StrategyGenerator"

// HealthWorker publishes the application health to the gRPC health
// service. The overall status ("") follows the database.
type HealthWorker struct {
	appInfo   service.AppInfoService
	publisher HealthPublisher
	interval  time.Duration

	logger *logger.Logger
}

func NewHealthWorker(appInfo service.AppInfoService, publisher HealthPublisher, interval time.Duration, logger *logger.Logger) *HealthWorker {
	return &HealthWorker{
		appInfo:   appInfo,
		publisher: publisher,
		interval:  interval,
		logger:    logger.WithComponent("health-worker"),
	}
}

func (w *HealthWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.publish(ctx)

		select {
		case <-ctx.Done():
			w.publisher.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return
		case <-ticker.C:
		}
	}
}

func (w *HealthWorker) publish(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	status := w.appInfo.Health(checkCtx)

	overall := healthpb.HealthCheckResponse_SERVING
	if status.Status == models.HealthDown {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
		w.logger.Warn().Str("database", status.Database).Msg("service is not serving")
	}
	w.publisher.SetServingStatus("", overall)

	generator := healthpb.HealthCheckResponse_SERVING
	switch status.StrategyGenerator {
	case models.HealthDown:
		generator = healthpb.HealthCheckResponse_NOT_SERVING
	case models.HealthDisabled:
		generator = healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	}
	w.publisher.SetServingStatus(StrategyGeneratorHealthService, generator)
}
