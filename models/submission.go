package models

import (
	"encoding/json"
	"time"
)

// SubmissionStatus is the processing state of a marketing form submission.
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "pending"
	StatusProcessing SubmissionStatus = "processing"
	StatusCompleted  SubmissionStatus = "completed"
	StatusFailed     SubmissionStatus = "failed"
)

// Statuses lists every recognised status in lifecycle order.
func Statuses() []SubmissionStatus {
	return []SubmissionStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}
}

// IsValid reports whether s is one of the four recognised statuses.
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition out of s is allowed.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Submission is one marketing questionnaire together with the strategy
// generated for it.
type Submission struct {
	ID string `json:"id"`

	// UserID is nil for anonymous submissions.
	UserID *string `json:"user_id"`

	// FormData is the raw submitted form. It is never modified after creation.
	FormData json.RawMessage `json:"form_data"`

	// StrategyData holds the generated strategy, null until processing completes.
	StrategyData json.RawMessage `json:"strategy_data"`

	Status SubmissionStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Submission model.
func (s Submission) TableName() string {
	return "marketing_form_submissions"
}

// SubmissionFilter narrows listSubmissions. Nil fields are not applied.
type SubmissionFilter struct {
	UserID *string
	Status *SubmissionStatus

	// FormDataContains is a JSON object that matching form data must contain.
	FormDataContains json.RawMessage
}

// StatusUpdate is a requested status change, optionally carrying the
// generated strategy document. A nil StrategyData keeps the stored value.
type StatusUpdate struct {
	Status       SubmissionStatus `json:"status" validate:"required,submission_status"`
	StrategyData json.RawMessage  `json:"strategy_data,omitempty" validate:"omitempty,json_object"`
}

// SubmissionStats aggregates submission counts per status.
type SubmissionStats struct {
	Total    int64                      `json:"total"`
	ByStatus map[SubmissionStatus]int64 `json:"by_status"`
}

// NewSubmissionStats returns stats with a zero counter for every status.
func NewSubmissionStats() SubmissionStats {
	byStatus := make(map[SubmissionStatus]int64, len(Statuses()))
	for _, s := range Statuses() {
		byStatus[s] = 0
	}
	return SubmissionStats{ByStatus: byStatus}
}
