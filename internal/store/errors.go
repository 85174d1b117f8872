package store

import (
	"errors"
)

// Error kinds. Every error returned by a repository that is caused by the
// caller's input matches exactly one of them with errors.Is.
var (
	// ErrConflict reports a unique constraint violation.
	ErrConflict = errors.New("conflict")

	// ErrValidation reports malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrReference reports a reference to a record that does not exist.
	ErrReference = errors.New("referenced record does not exist")

	// ErrInvalidTransition reports an attempt to leave a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound reports a lookup without a match.
	ErrNotFound = errors.New("not found")
)

// kindError is a specific error that also matches its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrEmailAlreadyExists = newKindError(ErrConflict, "email already exists")

	ErrUserNotFound = newKindError(ErrNotFound, "user was not found")

	ErrSubmissionNotFound = newKindError(ErrNotFound, "submission was not found")

	ErrUserReferenceNotFound = newKindError(ErrReference, "submission references a user that does not exist")

	ErrSubmissionIsFinal = newKindError(ErrInvalidTransition, "submission status is terminal")

	ErrEmptyEmail = newKindError(ErrValidation, "email is empty")

	ErrEmptyPasswordHash = newKindError(ErrValidation, "password hash is empty")

	ErrInvalidID = newKindError(ErrValidation, "id is not a valid UUID")

	ErrEmptyFormData = newKindError(ErrValidation, "form data must be a non-empty JSON object")

	ErrInvalidStrategyData = newKindError(ErrValidation, "strategy data must be a JSON object")

	ErrInvalidStatus = newKindError(ErrValidation, "status must be one of pending, processing, completed, failed")

	ErrInvalidPagination = newKindError(ErrValidation, "limit must be within 1..100 and offset must not be negative")

	ErrInvalidContainsFilter = newKindError(ErrValidation, "contains filter must be a JSON object")
)

// Infrastructure errors wrap the underlying database error.
var (
	ErrBuildingSQLQuery = errors.New("error building sql query")

	ErrExecutingQuery = errors.New("error executing sql query")

	ErrBeginningTransaction = errors.New("failed to begin transaction")

	ErrCommitingTransaction = errors.New("failed to commit transaction")

	ErrScanningRow = errors.New("failed to scan row")

	ErrScanningRows = errors.New("failed to scan rows")
)
