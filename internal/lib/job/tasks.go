package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task types. Asynq routes tasks to handlers by these names.
const (
	TaskConferenceCreated = "email:conference_created"
	TaskFeaturedSpeaker   = "session:featured_speaker"
	TaskAnnouncement      = "conference:announcement"
)

// ConferenceCreatedPayload carries everything the confirmation email
// shows, so the worker needs no database access to send it.
type ConferenceCreatedPayload struct {
	To            string   `json:"to"`
	OrganizerName string   `json:"organizer_name"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	City          string   `json:"city"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	MaxAttendees  int      `json:"max_attendees"`
	Topics        []string `json:"topics"`
	WebsafeKey    string   `json:"websafe_key"`
}

func NewConferenceCreatedTask(p ConferenceCreatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskConferenceCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// FeaturedSpeakerPayload names a speaker who just got a session at a
// conference.
type FeaturedSpeakerPayload struct {
	WebsafeConferenceKey string `json:"websafe_conference_key"`
	WebsafeSpeakerKey    string `json:"websafe_speaker_key"`
}

func NewFeaturedSpeakerTask(p FeaturedSpeakerPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskFeaturedSpeaker,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(QueueCritical),
		asynq.Timeout(15*time.Second),
	), nil
}

// NewAnnouncementTask has no payload; the handler reads current seat
// counts.
func NewAnnouncementTask() *asynq.Task {
	return asynq.NewTask(
		TaskAnnouncement,
		nil,
		asynq.MaxRetry(1),
		asynq.Queue(QueueLow),
		asynq.Timeout(time.Minute),
		asynq.Unique(time.Minute),
	)
}
