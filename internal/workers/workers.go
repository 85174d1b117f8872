package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
)

type Workers struct {
	workers []Worker

	wg sync.WaitGroup
}

// NewWorkers creates the health worker when a publisher is given and, when
// auto generation is enabled and a generator is configured, the strategy
// worker.
func NewWorkers(services *service.Services, publisher HealthPublisher, cfg config.Workers, logger *logger.Logger) *Workers {
	ws := &Workers{}

	if publisher != nil {
		ws.workers = append(ws.workers, NewHealthWorker(services.AppInfoService, publisher, cfg.HealthInterval, logger))
	}

	switch {
	case !cfg.AutoGenerate:
		logger.Info().Msg("strategy auto generation is disabled")
	case services.GenerationService == nil:
		logger.Warn().Msg("strategy auto generation is enabled but no strategy generator is configured")
	default:
		ws.workers = append(ws.workers, NewStrategyWorker(services.GenerationService, cfg.PollInterval, cfg.BatchSize, logger))
	}

	return ws
}

// Run starts every worker in its own goroutine and returns immediately.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Go(func() {
			worker.Run(ctx)
		})
	}
}

// Wait blocks until every started worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}
