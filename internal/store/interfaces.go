package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-strategy-forms/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists registered users.
type UserRepository interface {
	// CreateUser inserts a user. A duplicate email returns ErrEmailAlreadyExists.
	CreateUser(ctx context.Context, email, hashedPassword string) (models.User, error)

	// GetUserByEmail matches the email exactly as stored.
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	GetUserByID(ctx context.Context, id string) (models.User, error)

	// DeleteUser removes the user together with all of their submissions.
	DeleteUser(ctx context.Context, id string) error
}

// SubmissionRepository persists marketing form submissions. Every operation
// on existing rows is restricted to the given scope; rows outside the scope
// behave as if they did not exist.
type SubmissionRepository interface {
	// CreateSubmission stores a new pending submission. userID is nil for
	// anonymous submissions.
	CreateSubmission(ctx context.Context, userID *string, formData json.RawMessage) (models.Submission, error)

	GetSubmission(ctx context.Context, id string, scope models.Scope) (models.Submission, error)

	// ListSubmissions returns the newest submissions first.
	ListSubmissions(ctx context.Context, filter models.SubmissionFilter, page models.Pagination, scope models.Scope) ([]models.Submission, error)

	CountSubmissions(ctx context.Context, filter models.SubmissionFilter, scope models.Scope) (int64, error)

	// UpdateSubmissionStatus moves a submission to a new status unless its
	// current status is terminal. The check and the write are atomic.
	UpdateSubmissionStatus(ctx context.Context, id string, update models.StatusUpdate, scope models.Scope) (models.Submission, error)

	DeleteSubmission(ctx context.Context, id string, scope models.Scope) error

	GetStats(ctx context.Context, scope models.Scope) (models.SubmissionStats, error)

	// ClaimPending moves up to limit of the oldest pending submissions to
	// processing and returns them. A submission is claimed at most once.
	ClaimPending(ctx context.Context, limit int) ([]models.Submission, error)

	// ReleaseStaleClaims moves submissions that have been processing since
	// before claimedBefore back to pending and returns how many moved.
	ReleaseStaleClaims(ctx context.Context, claimedBefore time.Time) (int64, error)
}

// Pinger checks that the backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
