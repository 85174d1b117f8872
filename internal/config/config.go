// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the complete service configuration.
type StructuredConfig struct {
	App App `envPrefix:"APP_"`

	Storage Storage `envPrefix:"STORAGE_"`

	Server Server `envPrefix:"SERVER_"`

	Adapter Adapter `envPrefix:"ADAPTER_"`

	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath points to an optional JSON config file.
	JSONFilePath string `env:"CONFIG"`

	// DotenvPath points to an optional .env file loaded before the environment
	// is parsed. Variables already present in the environment are kept.
	DotenvPath string `env:"DOTENV"`
}

type App struct {
	// TokenSignKey is the HMAC secret used to sign access tokens.
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	TokenIssuer string `env:"TOKEN_ISSUER"`

	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	Version string `env:"VERSION"`

	LogLevel string `env:"LOG_LEVEL"`
}

type Storage struct {
	DB DB `envPrefix:"DB_"`
}

type DB struct {
	// DSN is the Postgres connection string. An empty DSN selects the
	// in-memory store.
	DSN string `env:"DATABASE_URI"`

	// AutoMigrate applies the embedded migrations on startup.
	AutoMigrate bool `env:"AUTO_MIGRATE"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS"`

	MaxIdleConns int `env:"MAX_IDLE_CONNS"`

	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"`
}

type Server struct {
	HTTPAddress string `env:"ADDRESS"`

	GRPCAddress string `env:"GRPC_ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// CORSOrigins lists the origins allowed by the CORS middleware.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Adapter configures the client of the external strategy generator.
type Adapter struct {
	StrategyGeneratorURL string `env:"STRATEGY_GENERATOR_URL"`

	LLMModel string `env:"LLM_MODEL"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT"`
}

type Workers struct {
	// AutoGenerate enables the background strategy generation worker.
	AutoGenerate bool `env:"AUTO_GENERATE"`

	PollInterval time.Duration `env:"POLL_INTERVAL"`

	BatchSize int `env:"BATCH_SIZE"`

	HealthInterval time.Duration `env:"HEALTH_INTERVAL"`

	// StaleClaimAfter is how long a claimed submission may stay in
	// processing before the generation worker returns it to pending.
	StaleClaimAfter time.Duration `env:"STALE_CLAIM_AFTER"`
}

// GetStructuredConfig collects, merges and validates the configuration.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotenv().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
