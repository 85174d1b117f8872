package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRawJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJSON_Success(t *testing.T) {
	path := writeRawJSON(t, `{
		"app": {"token_sign_key": "json_secret", "token_duration": "2h", "log_level": "info"},
		"storage": {"db": {"dsn": "postgres://json", "auto_migrate": true, "conn_max_lifetime": 60000000000}},
		"server": {"http_address": "0.0.0.0:8000", "request_timeout": "15s", "cors_origins": ["https://app.example"]},
		"adapter": {"strategy_generator_url": "http://gen:8002", "request_timeout": "2m"},
		"workers": {"auto_generate": true, "poll_interval": "3s", "batch_size": 2}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "json_secret", cfg.App.TokenSignKey)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "postgres://json", cfg.Storage.DB.DSN)
	assert.True(t, cfg.Storage.DB.AutoMigrate)
	assert.Equal(t, time.Minute, cfg.Storage.DB.ConnMaxLifetime)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://app.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://gen:8002", cfg.Adapter.StrategyGeneratorURL)
	assert.Equal(t, 2*time.Minute, cfg.Adapter.RequestTimeout)
	assert.True(t, cfg.Workers.AutoGenerate)
	assert.Equal(t, 3*time.Second, cfg.Workers.PollInterval)
	assert.Equal(t, 2, cfg.Workers.BatchSize)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		msg  string
	}{
		{
			name: "file not found",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.json") },
			msg:  "error reading a json file",
		},
		{
			name: "malformed json",
			path: func(t *testing.T) string { return writeRawJSON(t, `{"app": `) },
			msg:  "error decoding json configs",
		},
		{
			name: "invalid duration",
			path: func(t *testing.T) string { return writeRawJSON(t, `{"app": {"token_duration": "soon"}}`) },
			msg:  "error decoding json configs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseJSON(tt.path(t))
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseJSON_EmptyObject(t *testing.T) {
	cfg, err := parseJSON(writeRawJSON(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestDuration_NullIsIgnored(t *testing.T) {
	cfg, err := parseJSON(writeRawJSON(t, `{"app": {"token_duration": null}}`))
	require.NoError(t, err)
	assert.Zero(t, cfg.App.TokenDuration)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
