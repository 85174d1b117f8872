package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/models"
)

const (
	generatePath = "/strategy/generate"
	healthPath   = "/health"
)

type httpStrategyGenerator struct {
	client *utils.HTTPClient

	model         string
	healthTimeout time.Duration

	logger *logger.Logger
}

// NewHTTPStrategyGenerator constructs an HTTP implementation of
// [StrategyGenerator] for the base URL in cfg. Requests are bounded by
// cfg.RequestTimeout, health checks by cfg.HealthTimeout.
func NewHTTPStrategyGenerator(cfg config.Adapter, logger *logger.Logger) (StrategyGenerator, error) {
	baseURL, err := normalizeBaseURL(cfg.StrategyGeneratorURL)
	if err != nil {
		return nil, fmt.Errorf("invalid strategy generator address: %w", err)
	}

	logger.Info().Str("base_url", baseURL).Msg("strategy generator client created")
	return &httpStrategyGenerator{
		client:        utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		model:         cfg.LLMModel,
		healthTimeout: cfg.HealthTimeout,
		logger:        logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Generate implements [StrategyGenerator]. It POSTs the submission to
// /strategy/generate and returns the strategy from a successful reply.
func (g *httpStrategyGenerator) Generate(ctx context.Context, submission models.Submission) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	var result models.StrategyResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.StrategyRequest{
			SubmissionID: submission.ID,
			Model:        g.model,
			SMEProfile:   submission.FormData,
			TrendData:    models.EmptyTrendData,
		}).
		SetResult(&result).
		ForceContentType("application/json").
		Post(generatePath)
	if err != nil && resp != nil && resp.StatusCode() != 0 {
		return nil, fmt.Errorf("%w: malformed reply: %w", ErrGenerationFailed, err)
	}
	if err != nil {
		log.Err(err).Str("func", "*httpStrategyGenerator.Generate").
			Str("submission_id", submission.ID).
			Msg("strategy generator request failed")
		return nil, fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		if isGatewayError(err) {
			return nil, fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, reason)
	}
	if !validJSONObject(result.Strategy) {
		return nil, fmt.Errorf("%w: strategy is not a JSON object", ErrGenerationFailed)
	}

	return result.Strategy, nil
}

// Health implements [StrategyGenerator].
func (g *httpStrategyGenerator) Health(ctx context.Context) error {
	if g.healthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.healthTimeout)
		defer cancel()
	}

	resp, err := g.client.R().
		SetContext(ctx).
		Get(healthPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}
	return nil
}

func validJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}
