package main

import (
	"github.com/deppfellow/conference-central/internal/config"
	"github.com/deppfellow/conference-central/internal/logger"
	"github.com/deppfellow/conference-central/internal/repository"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/rs/zerolog"
)

// app is what serve and worker share: config, loggers, the server container
// and the services built on top of it.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
	server        *server.Server
	services      *service.Services
}

func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	return &app{
		cfg:           cfg,
		log:           log,
		loggerService: loggerService,
		server:        srv,
		services:      services,
	}, nil
}
