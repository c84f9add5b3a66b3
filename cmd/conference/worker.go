package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/deppfellow/conference-central/internal/lib/email"
	"github.com/deppfellow/conference-central/internal/lib/job"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "worker",
		Short: "Process background tasks and the announcement schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd.Context())
		},
	})
}

func runWorker(ctx context.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.loggerService.Shutdown()

	if a.cfg.Cache.ProcessLocal() {
		a.log.Warn().Msg("memory cache is private to this process; results will not reach the API, use serve instead")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := startWorker(ctx, a); err != nil {
		return errors.Join(err, shutdown(a))
	}

	<-ctx.Done()
	a.server.Job.Stop()

	return shutdown(a)
}

// startWorker wires the task handlers to the app's services and starts
// consuming. It does not block.
func startWorker(ctx context.Context, a *app) error {
	jobs := a.server.Job
	jobs.InitHandlers(job.Handlers{
		Email:         email.NewClient(a.cfg, &a.log),
		Speakers:      a.services.Session,
		Announcements: a.services.Conference,
	})

	if err := jobs.Start(ctx); err != nil {
		a.log.Error().Err(err).Msg("failed to start worker")
		return err
	}
	return nil
}
