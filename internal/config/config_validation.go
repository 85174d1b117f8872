package config

import "fmt"

func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	db := cfg.Storage.DB
	if db.MaxOpenConns < 0 || db.MaxIdleConns < 0 || db.ConnMaxLifetime < 0 {
		return ErrInvalidStorageConfigs
	}
	if db.AutoMigrate && db.DSN == "" {
		return fmt.Errorf("%w: auto migration requires a database DSN", ErrInvalidStorageConfigs)
	}

	if cfg.Workers.AutoGenerate {
		if cfg.Adapter.StrategyGeneratorURL == "" || cfg.Adapter.RequestTimeout <= 0 {
			return ErrInvalidAdapterConfigs
		}
		if cfg.Workers.PollInterval <= 0 || cfg.Workers.BatchSize <= 0 {
			return ErrInvalidWorkerConfigs
		}
		// a claim still waiting on the generator must not be released
		if cfg.Workers.StaleClaimAfter <= cfg.Adapter.RequestTimeout {
			return fmt.Errorf("%w: stale claim timeout must exceed the adapter request timeout", ErrInvalidWorkerConfigs)
		}
	}
	if cfg.Workers.HealthInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
