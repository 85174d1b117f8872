package models

import "encoding/json"

// StrategyRequest is sent to the strategy generator for one submission.
type StrategyRequest struct {
	SubmissionID string          `json:"submission_id"`
	Model        string          `json:"model,omitempty"`
	SMEProfile   json.RawMessage `json:"sme_profile"`
	TrendData    json.RawMessage `json:"trend_data"`
}

// StrategyResponse is the generator's reply. Strategy is only meaningful
// when Success is true.
type StrategyResponse struct {
	Success  bool            `json:"success"`
	Strategy json.RawMessage `json:"strategy,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// EmptyTrendData is sent when no market signals were collected.
var EmptyTrendData = json.RawMessage(`{"signals":[]}`)
