// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the business logic between the transport layer
// and the store.
//
// Services read the authenticated user from the context
// (utils.GetUserIDFromContext) and turn it into the store scope, so
// handlers never build a scope themselves.
package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-strategy-forms/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	Register(ctx context.Context, credentials models.Credentials) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	Me(ctx context.Context, userID string) (models.User, error)
}

// SubmissionService manages marketing form submissions on behalf of the
// caller found in the context. Anonymous callers may only submit and read
// anonymous submissions.
type SubmissionService interface {
	Submit(ctx context.Context, formData json.RawMessage) (models.Submission, error)
	Get(ctx context.Context, id string) (models.Submission, error)
	List(ctx context.Context, query models.SubmissionQuery) (models.SubmissionPage, error)
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (models.Submission, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.SubmissionStats, error)
}

// GenerationService turns pending submissions into strategies.
type GenerationService interface {
	// ProcessPending claims up to batch pending submissions, generates a
	// strategy for each and stores the outcome. It returns the number of
	// submissions that reached a terminal status.
	ProcessPending(ctx context.Context, batch int) (int, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string

	// Health reports the state of the database and the strategy generator.
	Health(ctx context.Context) models.HealthStatus
}
