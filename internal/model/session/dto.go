package session

import (
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/validation"
	"github.com/go-playground/validator/v10"
)

type CreateSessionPayload struct {
	Name                 string   `json:"name" validate:"required,max=200"`
	Date                 string   `json:"date"`
	StartTime            string   `json:"startTime"`
	Highlights           []string `json:"highlights" validate:"max=20,dive,min=1,max=200"`
	WebsafeSpeakerKey    string   `json:"websafeSpeakerKey" validate:"required"`
	Duration             *int     `json:"duration" validate:"omitempty,min=0,max=10080"`
	TypeOfSession        []string `json:"typeOfSession" validate:"max=10,dive,min=1,max=100"`
	WebsafeConferenceKey string   `json:"websafeConferenceKey" validate:"required"`
}

func (p *CreateSessionPayload) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	if _, err := model.ParseDate(p.Date); err != nil {
		problems = append(problems, validation.CustomValidationError{Field: "date", Message: err.Error()})
	}
	if p.StartTime != "" {
		if _, err := ParseTimeOfDay(p.StartTime); err != nil {
			problems = append(problems, validation.CustomValidationError{Field: "startTime", Message: err.Error()})
		}
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// ToSession applies defaults. Speaker and conference references are
// resolved by the caller.
func (p *CreateSessionPayload) ToSession(id, conferenceID int64, organizerUserID string, speakerID int64, speakerName string) *Session {
	startRaw := p.StartTime
	if startRaw == "" {
		startRaw = DefaultStartTime
	}
	start, _ := ParseTimeOfDay(startRaw)
	date, _ := model.ParseDate(p.Date)

	duration := DefaultDuration
	if p.Duration != nil {
		duration = *p.Duration
	}

	return &Session{
		ID:              id,
		ConferenceID:    conferenceID,
		OrganizerUserID: organizerUserID,
		Name:            p.Name,
		Highlights:      model.OrDefault(p.Highlights, DefaultHighlights),
		SpeakerID:       speakerID,
		SpeakerName:     speakerName,
		Duration:        duration,
		TypeOfSession:   model.OrDefault(p.TypeOfSession, DefaultTypeOfSession),
		Date:            date,
		StartTime:       start,
	}
}

// ------------------------------------------------------------

type ByConferencePayload struct {
	WebsafeConferenceKey string `query:"websafeConferenceKey" validate:"required"`
}

func (p *ByConferencePayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

type ByTypePayload struct {
	WebsafeConferenceKey string `query:"websafeConferenceKey" validate:"required"`
	Type                 string `query:"type" validate:"required"`
}

func (p *ByTypePayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

type BySpeakerPayload struct {
	WebsafeSpeakerKey string `query:"websafeSpeakerKey" validate:"required"`
}

func (p *BySpeakerPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

type ByHighlightsPayload struct {
	Highlights []string `query:"highlights" validate:"required,min=1,max=20"`
}

func (p *ByHighlightsPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

// ByDurationPayload selects sessions no longer than Duration minutes.
type ByDurationPayload struct {
	Duration int `query:"duration" validate:"required,min=1,max=10080"`
}

func (p *ByDurationPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

type FeaturedSpeakerPayload struct {
	WebsafeConferenceKey string `query:"websafeConferenceKey" validate:"required"`
}

func (p *FeaturedSpeakerPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

// WishlistPayload names a session to add to or remove from the wishlist.
type WishlistPayload struct {
	WebsafeSessionKey string `json:"websafeSessionKey" validate:"required"`
}

func (p *WishlistPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
