package validators

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-strategy-forms/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_Credentials(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		creds   models.Credentials
		wantErr string
	}{
		{name: "valid", creds: models.Credentials{Email: "owner@example.com", Password: "s3cret-pass"}},
		{name: "missing email", creds: models.Credentials{Password: "s3cret-pass"}, wantErr: "email is required"},
		{name: "malformed email", creds: models.Credentials{Email: "owner", Password: "s3cret-pass"}, wantErr: "email must be a valid email address"},
		{name: "short password", creds: models.Credentials{Email: "owner@example.com", Password: "short"}, wantErr: "password must satisfy min=8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.creds)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestValidator_PartialFields(t *testing.T) {
	v := NewRequestValidator()

	// login only needs both fields present; the password policy is not re-checked
	err := v.Validate(context.Background(), &models.Credentials{Email: "owner@example.com"}, FieldEmail)
	assert.NoError(t, err)

	err = v.Validate(context.Background(), &models.Credentials{Email: "owner@example.com"}, FieldEmail, FieldPassword)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRequestValidator_StatusUpdate(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.StatusUpdate{Status: models.StatusProcessing}))
	assert.NoError(t, v.Validate(ctx, models.StatusUpdate{
		Status:       models.StatusCompleted,
		StrategyData: json.RawMessage(` {"plan": []}`),
	}))

	err := v.Validate(ctx, models.StatusUpdate{Status: "archived"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "status must be one of")

	err = v.Validate(ctx, models.StatusUpdate{})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "status is required")

	err = v.Validate(ctx, models.StatusUpdate{Status: models.StatusCompleted, StrategyData: json.RawMessage(`[1]`)})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "strategy_data must be a JSON object")
}

func TestRequestValidator_Pagination(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.Pagination{Limit: 1}))
	assert.NoError(t, v.Validate(ctx, models.Pagination{Limit: 100, Offset: 500}))
	assert.ErrorIs(t, v.Validate(ctx, models.Pagination{Limit: 0}), ErrInvalidRequest)
	assert.ErrorIs(t, v.Validate(ctx, models.Pagination{Limit: 101}), ErrInvalidRequest)
	assert.ErrorIs(t, v.Validate(ctx, models.Pagination{Limit: 10, Offset: -1}), ErrInvalidRequest)
}

func TestRequestValidator_UnsupportedType(t *testing.T) {
	v := NewRequestValidator()

	assert.ErrorIs(t, v.Validate(context.Background(), "string"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), models.Submission{}), ErrUnsupportedType)
}

func TestIsJSONObject(t *testing.T) {
	assert.True(t, IsJSONObject(json.RawMessage(`{}`)))
	assert.True(t, IsJSONObject(json.RawMessage(`  {"a":{"b":1}}`)))
	assert.False(t, IsJSONObject(json.RawMessage(``)))
	assert.False(t, IsJSONObject(json.RawMessage(`null`)))
	assert.False(t, IsJSONObject(json.RawMessage(`[{}]`)))
	assert.False(t, IsJSONObject(json.RawMessage(`{"a":`)))
}
