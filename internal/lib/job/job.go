// Package job runs background work on asynq, a Redis backed task queue.
//
// The API process enqueues tasks through a Dispatcher. The worker process
// runs a JobService, which consumes those tasks and also schedules the
// periodic announcement refresh.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/conference-central/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Queue names and their share of worker slots.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// JobService holds the asynq client, the worker server and the scheduler.
type JobService struct {
	// Client enqueues tasks. It is also used by processes that never Start.
	Client *asynq.Client

	server    *asynq.Server
	scheduler *asynq.Scheduler
	cfg       *config.Config
	logger    *zerolog.Logger
	handlers  Handlers
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	j := &JobService{
		Client: asynq.NewClient(redisOpt(cfg)),
		cfg:    cfg,
		logger: logger,
	}

	j.server = asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: cfg.Jobs.Concurrency,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(j.reportError),
		},
	)

	j.scheduler = asynq.NewScheduler(redisOpt(cfg), &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	return j
}

func (j *JobService) reportError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	j.logger.Error().
		Err(err).
		Str("type", task.Type()).
		Int("retried", retried).
		Int("max_retry", maxRetry).
		Msg("task failed")
}

// Dispatcher returns a Dispatcher backed by this service's client.
func (j *JobService) Dispatcher() *Dispatcher {
	return NewDispatcher(j.Client, j.logger)
}

// Start registers the task handlers, starts the workers and the periodic
// announcement schedule, and queues one announcement refresh right away.
// It does not block.
func (j *JobService) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskConferenceCreated, j.handleConferenceCreatedTask)
	mux.HandleFunc(TaskFeaturedSpeaker, j.handleFeaturedSpeakerTask)
	mux.HandleFunc(TaskAnnouncement, j.handleAnnouncementTask)

	j.logger.Info().Int("concurrency", j.cfg.Jobs.Concurrency).Msg("starting background job server")
	if err := j.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}

	entryID, err := j.scheduler.Register(j.cfg.Jobs.AnnouncementSchedule, NewAnnouncementTask())
	if err != nil {
		return fmt.Errorf("failed to schedule announcements %q: %w", j.cfg.Jobs.AnnouncementSchedule, err)
	}
	if err := j.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start job scheduler: %w", err)
	}
	j.logger.Info().
		Str("entry_id", entryID).
		Str("schedule", j.cfg.Jobs.AnnouncementSchedule).
		Msg("announcement refresh scheduled")

	if _, err := j.Client.EnqueueContext(ctx, NewAnnouncementTask()); err != nil {
		j.logger.Warn().Err(err).Msg("failed to queue startup announcement refresh")
	}

	return nil
}

// Stop shuts down the scheduler and the workers, waiting for running
// tasks. The client stays open until the owning server shuts down.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.scheduler.Shutdown()
	j.server.Shutdown()
}
