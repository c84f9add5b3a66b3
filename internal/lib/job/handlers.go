package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// EmailSender delivers the conference confirmation.
type EmailSender interface {
	SendConferenceCreatedEmail(to string, d email.ConferenceCreated) error
}

// FeaturedSpeakerUpdater recomputes the featured speaker of a conference.
type FeaturedSpeakerUpdater interface {
	UpdateFeaturedSpeaker(ctx context.Context, websafeConferenceKey, websafeSpeakerKey string) error
}

// AnnouncementRefresher rebuilds the cached announcement and returns it.
type AnnouncementRefresher interface {
	RefreshAnnouncement(ctx context.Context) (string, error)
}

// Handlers are the dependencies task handlers call into.
type Handlers struct {
	Email         EmailSender
	Speakers      FeaturedSpeakerUpdater
	Announcements AnnouncementRefresher
}

// InitHandlers sets the handler dependencies. It must run before Start.
func (j *JobService) InitHandlers(h Handlers) {
	j.handlers = h
}

func decode(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		// A payload that cannot be decoded never will be.
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// permanent marks client errors, such as a malformed key, so asynq archives
// the task instead of retrying it.
func permanent(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status < http.StatusInternalServerError {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

// taskLogger is attached to the context handed to services, which log
// through zerolog.Ctx.
func (j *JobService) taskLogger(t *asynq.Task) zerolog.Logger {
	return j.logger.With().Str("type", t.Type()).Logger()
}

func (j *JobService) handleConferenceCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p ConferenceCreatedPayload
	if err := decode(t, &p); err != nil {
		return err
	}

	logger := j.logger.With().
		Str("type", t.Type()).
		Str("to", p.To).
		Str("conference", p.WebsafeKey).
		Logger()

	if p.To == "" {
		logger.Warn().Msg("organizer has no email address, skipping confirmation")
		return nil
	}

	logger.Info().Msg("processing conference confirmation email")

	err := j.handlers.Email.SendConferenceCreatedEmail(p.To, email.ConferenceCreated{
		OrganizerName: p.OrganizerName,
		Name:          p.Name,
		Description:   p.Description,
		City:          p.City,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		MaxAttendees:  p.MaxAttendees,
		Topics:        strings.Join(p.Topics, ", "),
		WebsafeKey:    p.WebsafeKey,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send conference confirmation email")
		return err
	}

	logger.Info().Msg("sent conference confirmation email")
	return nil
}

func (j *JobService) handleFeaturedSpeakerTask(ctx context.Context, t *asynq.Task) error {
	var p FeaturedSpeakerPayload
	if err := decode(t, &p); err != nil {
		return err
	}

	ctx = j.taskLogger(t).WithContext(ctx)
	if err := j.handlers.Speakers.UpdateFeaturedSpeaker(ctx, p.WebsafeConferenceKey, p.WebsafeSpeakerKey); err != nil {
		j.logger.Error().
			Err(err).
			Str("type", t.Type()).
			Str("conference", p.WebsafeConferenceKey).
			Str("speaker", p.WebsafeSpeakerKey).
			Msg("failed to update featured speaker")
		return permanent(err)
	}
	return nil
}

func (j *JobService) handleAnnouncementTask(ctx context.Context, t *asynq.Task) error {
	ctx = j.taskLogger(t).WithContext(ctx)
	announcement, err := j.handlers.Announcements.RefreshAnnouncement(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh announcement: %w", err)
	}

	j.logger.Debug().
		Str("type", t.Type()).
		Bool("active", announcement != "").
		Msg("announcement refreshed")
	return nil
}
