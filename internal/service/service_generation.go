// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/adapter"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
	"github.com/MKhiriev/go-strategy-forms/models"
)

type generationService struct {
	submissionRepository store.SubmissionRepository
	generator            adapter.StrategyGenerator
	staleClaimAfter      time.Duration

	logger *logger.Logger
}

// NewGenerationService builds the strategy generation service. A positive
// staleClaimAfter makes every poll first return submissions stuck in
// processing for longer than that to pending; zero disables the sweep.
func NewGenerationService(submissionRepository store.SubmissionRepository, generator adapter.StrategyGenerator, staleClaimAfter time.Duration, logger *logger.Logger) GenerationService {
	return &generationService{
		submissionRepository: submissionRepository,
		generator:            generator,
		staleClaimAfter:      staleClaimAfter,
		logger:               logger,
	}
}

// ProcessPending claims pending submissions and generates a strategy for
// each of them in turn.
//
// A submission whose generator could not be reached goes back to pending
// and is not counted. A rejected generation marks it failed with the
// reason stored as {"error": "..."}.
func (g *generationService) ProcessPending(ctx context.Context, batch int) (int, error) {
	log := g.logger.GetChildLogger()

	g.releaseStaleClaims(ctx)

	claimed, err := g.submissionRepository.ClaimPending(ctx, batch)
	if err != nil {
		if store.IsRetryable(err) {
			log.Warn().Err(err).Str("func", "generationService.ProcessPending").Msg("claiming pending submissions failed, will retry on next poll")
			return 0, nil
		}
		log.Err(err).Str("func", "generationService.ProcessPending").Msg("claiming pending submissions failed")
		return 0, fmt.Errorf("claiming pending submissions failed: %w", err)
	}

	finished := 0
	for _, submission := range claimed {
		update := g.generate(ctx, submission)

		// the outcome is written even when ctx is already cancelled so that
		// no submission is left in processing
		_, err = g.submissionRepository.UpdateSubmissionStatus(context.WithoutCancel(ctx), submission.ID, update, models.SystemScope())
		if err != nil {
			log.Err(err).Str("id", submission.ID).Str("status", string(update.Status)).Msg("storing generation outcome failed")
			continue
		}

		if update.Status.IsTerminal() {
			finished++
		}
	}

	return finished, nil
}

// releaseStaleClaims recovers submissions whose claimer died before
// writing an outcome. Failures are logged and left to the next poll.
func (g *generationService) releaseStaleClaims(ctx context.Context) {
	if g.staleClaimAfter <= 0 {
		return
	}

	released, err := g.submissionRepository.ReleaseStaleClaims(ctx, time.Now().Add(-g.staleClaimAfter))
	if err != nil {
		g.logger.Warn().Err(err).Str("func", "generationService.releaseStaleClaims").Msg("releasing stale claims failed")
		return
	}
	if released > 0 {
		g.logger.Info().Int64("released", released).Msg("stale claims returned to pending")
	}
}

func (g *generationService) generate(ctx context.Context, submission models.Submission) models.StatusUpdate {
	log := g.logger.GetChildLogger()

	strategy, err := g.generator.Generate(ctx, submission)
	switch {
	case err == nil:
		log.Info().Str("id", submission.ID).Msg("strategy generated")
		return models.StatusUpdate{Status: models.StatusCompleted, StrategyData: strategy}
	case errors.Is(err, adapter.ErrGeneratorUnavailable):
		log.Warn().Err(err).Str("id", submission.ID).Msg("strategy generator unavailable, submission returned to pending")
		return models.StatusUpdate{Status: models.StatusPending}
	default:
		log.Err(err).Str("id", submission.ID).Msg("strategy generation failed")
		reason, _ := json.Marshal(map[string]string{"error": err.Error()})
		return models.StatusUpdate{Status: models.StatusFailed, StrategyData: reason}
	}
}
