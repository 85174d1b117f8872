package config

import "time"

const (
	defaultTokenIssuer          = "go-strategy-forms"
	defaultTokenDuration        = 24 * time.Hour
	defaultVersion              = "1.0.0"
	defaultLogLevel             = "info"
	defaultMaxOpenConns         = 20
	defaultMaxIdleConns         = 10
	defaultConnMaxLifetime      = 5 * time.Minute
	defaultHTTPAddress          = "localhost:8000"
	defaultRequestTimeout       = 30 * time.Second
	defaultStrategyGeneratorURL = "http://localhost:8002"
	defaultLLMModel             = "gpt-4o-mini"
	defaultAdapterTimeout       = 120 * time.Second
	defaultHealthTimeout        = 5 * time.Second
	defaultPollInterval         = 5 * time.Second
	defaultBatchSize            = 5
	defaultHealthInterval       = 15 * time.Second
	defaultStaleClaimAfter      = 10 * time.Minute
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
			Version:       defaultVersion,
			LogLevel:      defaultLogLevel,
		},
		Storage: Storage{
			DB: DB{
				MaxOpenConns:    defaultMaxOpenConns,
				MaxIdleConns:    defaultMaxIdleConns,
				ConnMaxLifetime: defaultConnMaxLifetime,
			},
		},
		Server: Server{
			HTTPAddress:    defaultHTTPAddress,
			RequestTimeout: defaultRequestTimeout,
			CORSOrigins:    append([]string(nil), defaultCORSOrigins...),
		},
		Adapter: Adapter{
			StrategyGeneratorURL: defaultStrategyGeneratorURL,
			LLMModel:             defaultLLMModel,
			RequestTimeout:       defaultAdapterTimeout,
			HealthTimeout:        defaultHealthTimeout,
		},
		Workers: Workers{
			PollInterval:    defaultPollInterval,
			BatchSize:       defaultBatchSize,
			HealthInterval:  defaultHealthInterval,
			StaleClaimAfter: defaultStaleClaimAfter,
		},
	}
}
