package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/mock"
	"github.com/MKhiriev/go-strategy-forms/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// NewAppInfoService
// ─────────────────────────────────────────────

func TestNewAppInfoService_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, mock.NewMockPinger(ctrl), nil, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewAppInfoService_EmptyVersion_ReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, err := NewAppInfoService(config.App{Version: ""}, mock.NewMockPinger(ctrl), nil, logger.Nop())

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionIsNotSpecified))
}

// ─────────────────────────────────────────────
// GetAppVersion
// ─────────────────────────────────────────────

func TestGetAppVersion_ReturnsConfiguredVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, err := NewAppInfoService(config.App{Version: "v1.2.3-beta+build.42"}, mock.NewMockPinger(ctrl), nil, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3-beta+build.42", svc.GetAppVersion(context.Background()))
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, mock.NewMockPinger(ctrl), nil, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppVersion(ctx))
}

// ─────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────

func TestHealth(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name         string
		withGen      bool
		pingErr      error
		generatorErr error
		want         models.HealthStatus
	}{
		{
			name: "generator disabled",
			want: models.HealthStatus{Status: models.HealthOK, Database: models.HealthOK, StrategyGenerator: models.HealthDisabled},
		},
		{
			name:    "all healthy",
			withGen: true,
			want:    models.HealthStatus{Status: models.HealthOK, Database: models.HealthOK, StrategyGenerator: models.HealthOK},
		},
		{
			name:         "generator down degrades",
			withGen:      true,
			generatorErr: down,
			want:         models.HealthStatus{Status: models.HealthDegraded, Database: models.HealthOK, StrategyGenerator: models.HealthDown},
		},
		{
			name:    "database down",
			withGen: true,
			pingErr: down,
			want:    models.HealthStatus{Status: models.HealthDown, Database: models.HealthDown, StrategyGenerator: models.HealthOK},
		},
		{
			name:         "both down",
			withGen:      true,
			pingErr:      down,
			generatorErr: down,
			want:         models.HealthStatus{Status: models.HealthDown, Database: models.HealthDown, StrategyGenerator: models.HealthDown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()

			pinger := mock.NewMockPinger(ctrl)
			pinger.EXPECT().Ping(ctx).Return(tt.pingErr)

			var svc AppInfoService
			var err error
			if tt.withGen {
				generator := mock.NewMockStrategyGenerator(ctrl)
				generator.EXPECT().Health(ctx).Return(tt.generatorErr)
				svc, err = NewAppInfoService(config.App{Version: "1.0.0"}, pinger, generator, logger.Nop())
			} else {
				svc, err = NewAppInfoService(config.App{Version: "1.0.0"}, pinger, nil, logger.Nop())
			}
			require.NoError(t, err)

			assert.Equal(t, tt.want, svc.Health(ctx))
		})
	}
}
