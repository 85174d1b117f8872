// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides clients for the external services the server
// depends on.
//
// [StrategyGenerator] talks to the marketing strategy generator over
// HTTP/JSON. Transport failures are reported as [ErrGeneratorUnavailable];
// a reply that is not a successful strategy is reported as
// [ErrGenerationFailed], wrapping the HTTP status error from mapHTTPError
// when there is one.
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-strategy-forms/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// StrategyGenerator generates marketing strategies for submitted forms.
type StrategyGenerator interface {
	// Generate sends the submission's form data as the SME profile and
	// returns the generated strategy document.
	Generate(ctx context.Context, submission models.Submission) (json.RawMessage, error)

	// Health checks that the generator is reachable and healthy.
	Health(ctx context.Context) error
}
