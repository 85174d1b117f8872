package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig in the JSON file format.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
		LogLevel      string   `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN             string   `json:"dsn"`
			AutoMigrate     bool     `json:"auto_migrate"`
			MaxOpenConns    int      `json:"max_open_conns"`
			MaxIdleConns    int      `json:"max_idle_conns"`
			ConnMaxLifetime Duration `json:"conn_max_lifetime"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		CORSOrigins    []string `json:"cors_origins"`
	} `json:"server,omitempty"`

	Adapter struct {
		StrategyGeneratorURL string   `json:"strategy_generator_url"`
		LLMModel             string   `json:"llm_model"`
		RequestTimeout       Duration `json:"request_timeout"`
		HealthTimeout        Duration `json:"health_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		AutoGenerate    bool     `json:"auto_generate"`
		PollInterval    Duration `json:"poll_interval"`
		BatchSize       int      `json:"batch_size"`
		HealthInterval  Duration `json:"health_interval"`
		StaleClaimAfter Duration `json:"stale_claim_after"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
			LogLevel:      jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN:             jsonCfg.Storage.DB.DSN,
				AutoMigrate:     jsonCfg.Storage.DB.AutoMigrate,
				MaxOpenConns:    jsonCfg.Storage.DB.MaxOpenConns,
				MaxIdleConns:    jsonCfg.Storage.DB.MaxIdleConns,
				ConnMaxLifetime: time.Duration(jsonCfg.Storage.DB.ConnMaxLifetime),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			CORSOrigins:    jsonCfg.Server.CORSOrigins,
		},
		Adapter: Adapter{
			StrategyGeneratorURL: jsonCfg.Adapter.StrategyGeneratorURL,
			LLMModel:             jsonCfg.Adapter.LLMModel,
			RequestTimeout:       time.Duration(jsonCfg.Adapter.RequestTimeout),
			HealthTimeout:        time.Duration(jsonCfg.Adapter.HealthTimeout),
		},
		Workers: Workers{
			AutoGenerate:    jsonCfg.Workers.AutoGenerate,
			PollInterval:    time.Duration(jsonCfg.Workers.PollInterval),
			BatchSize:       jsonCfg.Workers.BatchSize,
			HealthInterval:  time.Duration(jsonCfg.Workers.HealthInterval),
			StaleClaimAfter: time.Duration(jsonCfg.Workers.StaleClaimAfter),
		},
	}, nil
}

// Duration accepts both "1m30s" strings and integer nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
