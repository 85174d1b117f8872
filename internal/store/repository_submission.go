package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/models"
)

// submissionRepository is the PostgreSQL-backed implementation of
// [SubmissionRepository].
type submissionRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewSubmissionRepository(db *DB, logger *logger.Logger) SubmissionRepository {
	logger.Debug().Msg("creating submission repository")
	return &submissionRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (models.Submission, error) {
	var (
		s            models.Submission
		userID       sql.NullString
		formData     []byte
		strategyData []byte
		status       string
	)
	if err := row.Scan(&s.ID, &userID, &formData, &strategyData, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return models.Submission{}, err
	}
	if userID.Valid {
		s.UserID = &userID.String
	}
	s.FormData = json.RawMessage(formData)
	if strategyData != nil {
		s.StrategyData = json.RawMessage(strategyData)
	}
	s.Status = models.SubmissionStatus(status)
	return s, nil
}

// CreateSubmission inserts a pending submission.
//
// Error handling:
//   - foreign_key_violation (23503) → [ErrUserReferenceNotFound].
//   - form data that is not a non-empty object → [ErrEmptyFormData].
func (r *submissionRepository) CreateSubmission(ctx context.Context, userID *string, formData json.RawMessage) (models.Submission, error) {
	log := logger.FromContext(ctx)

	if err := validateOptionalID(userID); err != nil {
		return models.Submission{}, err
	}
	if err := validateFormData(formData); err != nil {
		return models.Submission{}, err
	}

	var owner any
	if userID != nil {
		owner = *userID
	}

	s, err := scanSubmission(r.db.QueryRowContext(ctx, createSubmission, owner, string(formData)))
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.CreateSubmission").Msg("error creating submission")
		if kind := constraintError(err); kind != nil {
			return models.Submission{}, kind
		}
		return models.Submission{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return s, nil
}

func (r *submissionRepository) GetSubmission(ctx context.Context, id string, scope models.Scope) (models.Submission, error) {
	log := logger.FromContext(ctx)

	if err := validateID(id); err != nil {
		return models.Submission{}, err
	}

	query, args, err := buildGetSubmission(id, scope)
	if err != nil {
		return models.Submission{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Submission{}, ErrSubmissionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.GetSubmission").Msg("error getting submission")
		return models.Submission{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return s, nil
}

// ListSubmissions returns a page of submissions ordered by created_at
// descending. An empty page is an empty, non-nil slice.
func (r *submissionRepository) ListSubmissions(ctx context.Context, filter models.SubmissionFilter, page models.Pagination, scope models.Scope) ([]models.Submission, error) {
	log := logger.FromContext(ctx)

	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if err := validatePagination(page); err != nil {
		return nil, err
	}

	query, args, err := buildListSubmissions(filter, page, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.ListSubmissions").Msg("error listing submissions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	submissions := make([]models.Submission, 0, page.Limit)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			log.Err(err).Str("func", "*submissionRepository.ListSubmissions").Msg("error scanning submission")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		submissions = append(submissions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return submissions, nil
}

func (r *submissionRepository) CountSubmissions(ctx context.Context, filter models.SubmissionFilter, scope models.Scope) (int64, error) {
	log := logger.FromContext(ctx)

	if err := validateFilter(filter); err != nil {
		return 0, err
	}

	query, args, err := buildCountSubmissions(filter, scope)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*submissionRepository.CountSubmissions").Msg("error counting submissions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return total, nil
}

// UpdateSubmissionStatus locks the row, checks that its status is not
// terminal and writes the update in the same transaction. The UPDATE repeats
// the terminal check, so a row that became terminal concurrently is never
// overwritten.
func (r *submissionRepository) UpdateSubmissionStatus(ctx context.Context, id string, update models.StatusUpdate, scope models.Scope) (models.Submission, error) {
	log := logger.FromContext(ctx)

	if err := validateID(id); err != nil {
		return models.Submission{}, err
	}
	if err := validateStatusUpdate(update); err != nil {
		return models.Submission{}, err
	}

	lockQuery, lockArgs, err := buildLockSubmissionStatus(id, scope)
	if err != nil {
		return models.Submission{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	updateQuery, updateArgs, err := buildUpdateSubmissionStatus(id, update)
	if err != nil {
		return models.Submission{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updated models.Submission
	err = r.db.WithTx(ctx, nil, func(ctx context.Context, tx DBTX) error {
		var current string
		err := tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubmissionNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if models.SubmissionStatus(current).IsTerminal() {
			return ErrSubmissionIsFinal
		}

		updated, err = scanSubmission(tx.QueryRowContext(ctx, updateQuery, updateArgs...))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubmissionIsFinal
		}
		if err != nil {
			if kind := constraintError(err); kind != nil {
				return kind
			}
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.UpdateSubmissionStatus").
			Str("submission_id", id).
			Msg("error updating submission status")
		return models.Submission{}, err
	}

	return updated, nil
}

func (r *submissionRepository) DeleteSubmission(ctx context.Context, id string, scope models.Scope) error {
	log := logger.FromContext(ctx)

	if err := validateID(id); err != nil {
		return err
	}

	query, args, err := buildDeleteSubmission(id, scope)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.DeleteSubmission").Msg("error deleting submission")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}

func (r *submissionRepository) GetStats(ctx context.Context, scope models.Scope) (models.SubmissionStats, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSubmissionStats(scope)
	if err != nil {
		return models.SubmissionStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.GetStats").Msg("error counting submissions by status")
		return models.SubmissionStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	stats := models.NewSubmissionStats()
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err = rows.Scan(&status, &count); err != nil {
			return models.SubmissionStats{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		stats.ByStatus[models.SubmissionStatus(status)] = count
		stats.Total += count
	}
	if err = rows.Err(); err != nil {
		return models.SubmissionStats{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return stats, nil
}

// ClaimPending moves up to limit of the oldest pending submissions to
// processing in one statement.
func (r *submissionRepository) ClaimPending(ctx context.Context, limit int) ([]models.Submission, error) {
	log := logger.FromContext(ctx)

	if limit < 1 || limit > models.MaxPageLimit {
		return nil, ErrInvalidPagination
	}

	query, args, err := buildClaimPending(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.ClaimPending").Msg("error claiming pending submissions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	claimed := make([]models.Submission, 0, limit)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		claimed = append(claimed, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return claimed, nil
}

// ReleaseStaleClaims resets abandoned claims, e.g. after a worker was killed
// between claiming and storing the outcome.
func (r *submissionRepository) ReleaseStaleClaims(ctx context.Context, claimedBefore time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildReleaseStaleClaims(claimedBefore)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*submissionRepository.ReleaseStaleClaims").Msg("error releasing stale claims")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	released, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if released > 0 {
		log.Warn().Int64("released", released).Time("claimed_before", claimedBefore).Msg("stale claims returned to pending")
	}

	return released, nil
}
