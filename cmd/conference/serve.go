package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/deppfellow/conference-central/internal/config"
	"github.com/deppfellow/conference-central/internal/database"
	"github.com/deppfellow/conference-central/internal/handler"
	"github.com/deppfellow/conference-central/internal/router"
	"github.com/spf13/cobra"
)

func init() {
	var withWorker bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), withWorker)
		},
	}
	cmd.Flags().BoolVar(&withWorker, "with-worker", false, "also process background tasks in this process")
	rootCmd.AddCommand(cmd)
}

// embedWorker reports whether serve must run the task workers itself. The
// memory cache is private to one process, so the featured speaker and
// announcement a separate worker computes would never reach the API.
func embedWorker(cfg *config.Config, withWorker bool) bool {
	return withWorker || cfg.Cache.ProcessLocal()
}

func runServe(ctx context.Context, withWorker bool) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.loggerService.Shutdown()

	// Local databases are migrated by hand with `conference migrate`.
	if a.cfg.Primary.Env != "local" {
		if err := database.Migrate(ctx, &a.log, a.cfg); err != nil {
			a.log.Error().Err(err).Msg("failed to migrate database")
			return err
		}
	}

	h := handler.NewHandlers(a.server, a.services)
	a.server.SetupHTTPServer(router.NewRouter(a.server, h))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedded := embedWorker(a.cfg, withWorker)
	if embedded {
		a.log.Info().Str("cache_driver", a.cfg.Cache.Driver).Msg("running background workers in the API process")
		if err := startWorker(ctx, a); err != nil {
			return errors.Join(err, shutdown(a))
		}
	}
	stopAll := func() error {
		if embedded {
			a.server.Job.Stop()
		}
		return shutdown(a)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.log.Error().Err(err).Msg("server stopped unexpectedly")
		}
		return errors.Join(err, stopAll())
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		return stopAll()
	}
}

func shutdown(a *app) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	a.log.Info().Msg("server exited properly")
	return nil
}
