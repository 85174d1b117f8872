package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/models"
)

type submissionService struct {
	submissionRepository store.SubmissionRepository

	logger *logger.Logger
}

func NewSubmissionService(submissionRepository store.SubmissionRepository, logger *logger.Logger) SubmissionService {
	return &submissionService{
		submissionRepository: submissionRepository,
		logger:               logger,
	}
}

// scopeFromContext returns the user scope for an authenticated caller and
// the anonymous scope otherwise.
func scopeFromContext(ctx context.Context) models.Scope {
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		return models.UserScope(userID)
	}
	return models.AnonymousScope()
}

func requireUserScope(ctx context.Context) (models.Scope, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return models.Scope{}, ErrUnauthorized
	}
	return models.UserScope(userID), nil
}

// ResolvePagination applies the listing defaults: limit 50 when unset and
// a 1-based page converted to an offset.
func ResolvePagination(query models.SubmissionQuery) models.Pagination {
	page := models.Pagination{Limit: query.Limit, Offset: query.Offset}
	if page.Limit == 0 {
		page.Limit = models.DefaultPageLimit
	}
	if query.Page > 0 {
		page.Offset = (query.Page - 1) * page.Limit
	}
	return page
}

func (s *submissionService) Submit(ctx context.Context, formData json.RawMessage) (models.Submission, error) {
	log := logger.FromContext(ctx)

	var userID *string
	if id, ok := utils.GetUserIDFromContext(ctx); ok {
		userID = &id
	}

	submission, err := s.submissionRepository.CreateSubmission(ctx, userID, formData)
	if err != nil {
		log.Err(err).Str("func", "submissionService.Submit").Msg("submission creation failed")
		return models.Submission{}, fmt.Errorf("submission creation failed: %w", err)
	}

	log.Info().Str("id", submission.ID).Bool("anonymous", userID == nil).Msg("form submitted")
	return submission, nil
}

func (s *submissionService) Get(ctx context.Context, id string) (models.Submission, error) {
	submission, err := s.submissionRepository.GetSubmission(ctx, id, scopeFromContext(ctx))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "submissionService.Get").Str("id", id).Msg("submission lookup failed")
		return models.Submission{}, fmt.Errorf("submission lookup failed: %w", err)
	}
	return submission, nil
}

// List returns one page of the caller's submissions together with the total
// number of matches.
func (s *submissionService) List(ctx context.Context, query models.SubmissionQuery) (models.SubmissionPage, error) {
	log := logger.FromContext(ctx)

	scope, err := requireUserScope(ctx)
	if err != nil {
		return models.SubmissionPage{}, err
	}

	filter := models.SubmissionFilter{Status: query.Status, FormDataContains: query.Contains}
	page := ResolvePagination(query)

	items, err := s.submissionRepository.ListSubmissions(ctx, filter, page, scope)
	if err != nil {
		log.Err(err).Str("func", "submissionService.List").Msg("listing submissions failed")
		return models.SubmissionPage{}, fmt.Errorf("listing submissions failed: %w", err)
	}

	total, err := s.submissionRepository.CountSubmissions(ctx, filter, scope)
	if err != nil {
		log.Err(err).Str("func", "submissionService.List").Msg("counting submissions failed")
		return models.SubmissionPage{}, fmt.Errorf("counting submissions failed: %w", err)
	}

	return models.SubmissionPage{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *submissionService) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (models.Submission, error) {
	log := logger.FromContext(ctx)

	scope, err := requireUserScope(ctx)
	if err != nil {
		return models.Submission{}, err
	}

	submission, err := s.submissionRepository.UpdateSubmissionStatus(ctx, id, update, scope)
	if err != nil {
		log.Err(err).Str("func", "submissionService.UpdateStatus").Str("id", id).Str("status", string(update.Status)).Msg("status update failed")
		return models.Submission{}, fmt.Errorf("status update failed: %w", err)
	}

	return submission, nil
}

func (s *submissionService) Delete(ctx context.Context, id string) error {
	scope, err := requireUserScope(ctx)
	if err != nil {
		return err
	}

	if err = s.submissionRepository.DeleteSubmission(ctx, id, scope); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "submissionService.Delete").Str("id", id).Msg("submission deletion failed")
		return fmt.Errorf("submission deletion failed: %w", err)
	}
	return nil
}

func (s *submissionService) Stats(ctx context.Context) (models.SubmissionStats, error) {
	scope, err := requireUserScope(ctx)
	if err != nil {
		return models.SubmissionStats{}, err
	}

	stats, err := s.submissionRepository.GetStats(ctx, scope)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "submissionService.Stats").Msg("collecting stats failed")
		return models.SubmissionStats{}, fmt.Errorf("collecting stats failed: %w", err)
	}
	return stats, nil
}
