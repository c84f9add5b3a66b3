package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/speaker"
)

// Defaults applied to fields a client leaves out on creation.
const (
	DefaultStartTime = "08:00"
	DefaultDuration  = 1
)

var (
	DefaultTypeOfSession = []string{"Default", "Type"}
	DefaultHighlights    = []string{"Default", "Highlight"}
)

// TimeOfDay is a session start time with minute precision.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay reads the first five characters of s as HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("must be a time in HH:MM format")
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Duration since midnight, the form pgtype.Time stores.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

func TimeOfDayFromDuration(d time.Duration) TimeOfDay {
	return TimeOfDay{Hour: int(d / time.Hour), Minute: int(d%time.Hour) / int(time.Minute)}
}

// Session is parented under a conference. The organizer id is carried so
// the full key path can be rebuilt; the speaker name is denormalized from
// the speakers table on read.
type Session struct {
	ID              int64      `db:"id"`
	ConferenceID    int64      `db:"conference_id"`
	OrganizerUserID string     `db:"organizer_user_id"`
	Name            string     `db:"name"`
	Highlights      []string   `db:"highlights"`
	SpeakerID       int64      `db:"speaker_id"`
	SpeakerName     string     `db:"speaker_name"`
	Duration        int        `db:"duration"`
	TypeOfSession   []string   `db:"type_of_session"`
	Date            *time.Time `db:"date"`
	StartTime       TimeOfDay  `db:"-"`
	CreatedAt       time.Time  `db:"created_at"`
}

func (s *Session) ConferenceKey() *key.Key {
	return key.New(key.KindConference, s.ConferenceID, profile.KeyFor(s.OrganizerUserID))
}

func (s *Session) Key() *key.Key {
	return key.New(key.KindSession, s.ID, s.ConferenceKey())
}

func (s *Session) SpeakerKey() *key.Key {
	return speaker.KeyFor(s.SpeakerID)
}

type Form struct {
	Name                 string   `json:"name"`
	Date                 string   `json:"date"`
	StartTime            string   `json:"startTime"`
	Highlights           []string `json:"highlights"`
	Speaker              string   `json:"speaker"`
	WebsafeSpeakerKey    string   `json:"websafeSpeakerKey"`
	Duration             int      `json:"duration"`
	TypeOfSession        []string `json:"typeOfSession"`
	WebsafeSessionKey    string   `json:"websafeSessionKey"`
	WebsafeConferenceKey string   `json:"websafeConferenceKey"`
}

func (s *Session) ToForm() *Form {
	return &Form{
		Name:                 s.Name,
		Date:                 model.FormatDate(s.Date),
		StartTime:            s.StartTime.String(),
		Highlights:           model.NonNil(s.Highlights),
		Speaker:              s.SpeakerName,
		WebsafeSpeakerKey:    s.SpeakerKey().Encode(),
		Duration:             s.Duration,
		TypeOfSession:        model.NonNil(s.TypeOfSession),
		WebsafeSessionKey:    s.Key().Encode(),
		WebsafeConferenceKey: s.ConferenceKey().Encode(),
	}
}

func ToForms(sessions []*Session) []*Form {
	forms := make([]*Form, 0, len(sessions))
	for _, s := range sessions {
		forms = append(forms, s.ToForm())
	}
	return forms
}

// IsWorkshop reports whether any of the session types is "Workshop".
func (s *Session) IsWorkshop() bool {
	for _, t := range s.TypeOfSession {
		if t == "Workshop" {
			return true
		}
	}
	return false
}

// FeaturedSpeaker is the cached record of the speaker with the most
// sessions at a conference.
type FeaturedSpeaker struct {
	WebsafeSpeakerKey  string   `json:"websafeSpeakerKey"`
	Speaker            string   `json:"speaker"`
	WebsafeSessionKeys []string `json:"websafeSessionKeys"`
}
