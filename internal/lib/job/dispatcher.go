package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is the part of asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher turns domain events into queued tasks.
type Dispatcher struct {
	client Enqueuer
	logger *zerolog.Logger
}

func NewDispatcher(client Enqueuer, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

func (d *Dispatcher) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}

	d.logger.Debug().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("task enqueued")
	return nil
}

func (d *Dispatcher) DispatchConferenceCreated(ctx context.Context, p ConferenceCreatedPayload) error {
	task, err := NewConferenceCreatedTask(p)
	if err != nil {
		return fmt.Errorf("failed to build %s task: %w", TaskConferenceCreated, err)
	}
	return d.enqueue(ctx, task)
}

func (d *Dispatcher) DispatchFeaturedSpeaker(ctx context.Context, p FeaturedSpeakerPayload) error {
	task, err := NewFeaturedSpeakerTask(p)
	if err != nil {
		return fmt.Errorf("failed to build %s task: %w", TaskFeaturedSpeaker, err)
	}
	return d.enqueue(ctx, task)
}
