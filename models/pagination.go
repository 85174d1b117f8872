package models

import "encoding/json"

const (
	// DefaultPageLimit is used when the caller does not specify a limit.
	DefaultPageLimit = 50

	// MaxPageLimit is the largest page a caller may request.
	MaxPageLimit = 100
)

// Pagination selects a window of an ordered listing.
type Pagination struct {
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// Valid reports whether the limit is within 1..MaxPageLimit and the offset
// is not negative.
func (p Pagination) Valid() bool {
	return p.Limit >= 1 && p.Limit <= MaxPageLimit && p.Offset >= 0
}

// SubmissionPage is a single page of submissions returned by the API.
type SubmissionPage struct {
	Items  []Submission `json:"items"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// SubmissionQuery is a listing request as received from the API. Page is
// 1-based and, when set, takes precedence over Offset.
type SubmissionQuery struct {
	Status   *SubmissionStatus
	Contains json.RawMessage
	Limit    int
	Offset   int
	Page     int
}
