package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-strategy-forms/internal/adapter"
	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/handler"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/server"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
	"github.com/MKhiriev/go-strategy-forms/internal/workers"
	"github.com/MKhiriev/go-strategy-forms/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("strategy-forms-server", "").Fatal().Err(err).Msg("error getting configs")
	}
	if buildVersion != "" {
		cfg.App.Version = buildVersion
	}

	log := logger.NewLogger("strategy-forms-server", cfg.App.LogLevel)
	log.Debug().Str("http_address", cfg.Server.HTTPAddress).Str("grpc_address", cfg.Server.GRPCAddress).
		Bool("auto_generate", cfg.Workers.AutoGenerate).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	var generator adapter.StrategyGenerator
	if cfg.Adapter.StrategyGeneratorURL != "" {
		generator, err = adapter.NewHTTPStrategyGenerator(cfg.Adapter, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating strategy generator client")
		}
	}

	services, err := service.NewServices(storages, generator, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	var publisher workers.HealthPublisher
	if handlers.GRPC != nil {
		publisher = handlers.GRPC
	}
	background := workers.NewWorkers(services, publisher, cfg.Workers, log)

	background.Run(ctx)

	if err = srv.RunServer(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
	}

	stop()
	background.Wait()
	log.Info().Msg("bye")
}
