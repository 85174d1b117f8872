// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
)

// StrategyWorker periodically hands pending submissions to the generation
// service.
type StrategyWorker struct {
	generation service.GenerationService

	pollInterval time.Duration
	batchSize    int

	logger *logger.Logger
}

func NewStrategyWorker(generation service.GenerationService, pollInterval time.Duration, batchSize int, logger *logger.Logger) *StrategyWorker {
	return &StrategyWorker{
		generation:   generation,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger.WithComponent("strategy-worker"),
	}
}

// Run polls immediately and then once per interval until ctx is cancelled.
// A full batch is followed by another poll without waiting.
func (w *StrategyWorker) Run(ctx context.Context) {
	ctx = w.logger.WithContext(ctx)

	w.logger.Info().Dur("poll_interval", w.pollInterval).Int("batch_size", w.batchSize).Msg("strategy worker started")
	defer w.logger.Info().Msg("strategy worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *StrategyWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.generation.ProcessPending(ctx, w.batchSize)
		if err != nil {
			w.logger.Err(err).Msg("processing pending submissions failed")
			return
		}
		if n > 0 {
			w.logger.Debug().Int("processed", n).Msg("pending submissions processed")
		}
		if n < w.batchSize {
			return
		}
	}
}
