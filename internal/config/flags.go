package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress is a host:port flag value. An empty host listens on all
// interfaces.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line into a partial config.
func ParseFlags() *StructuredConfig {
	var httpAddress, grpcAddress NetAddress
	var (
		databaseDSN          string
		autoMigrate          bool
		jsonConfigPath       string
		tokenSignKey         string
		tokenIssuer          string
		tokenDuration        time.Duration
		requestTimeout       time.Duration
		corsOrigins          string
		strategyGeneratorURL string
		llmModel             string
		autoGenerate         bool
		pollInterval         time.Duration
		logLevel             string
	)

	flag.Var(&httpAddress, "a", "HTTP server address host:port")
	flag.Var(&grpcAddress, "grpc-address", "gRPC server address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.BoolVar(&autoMigrate, "migrate", false, "Apply database migrations on startup")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 24h)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "HTTP request timeout (e.g., 30s)")
	flag.StringVar(&corsOrigins, "cors-origins", "", "Comma separated list of allowed CORS origins")
	flag.StringVar(&strategyGeneratorURL, "strategy-url", "", "Strategy generator base URL")
	flag.StringVar(&llmModel, "llm-model", "", "Model identifier passed to the strategy generator")
	flag.BoolVar(&autoGenerate, "auto-generate", false, "Generate strategies for pending submissions in the background")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Strategy worker poll interval")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			LogLevel:      logLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN:         databaseDSN,
				AutoMigrate: autoMigrate,
			},
		},
		Server: Server{
			HTTPAddress:    httpAddress.String(),
			GRPCAddress:    grpcAddress.String(),
			RequestTimeout: requestTimeout,
			CORSOrigins:    splitList(corsOrigins),
		},
		Adapter: Adapter{
			StrategyGeneratorURL: strategyGeneratorURL,
			LLMModel:             llmModel,
		},
		Workers: Workers{
			AutoGenerate: autoGenerate,
			PollInterval: pollInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be within 1..65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
