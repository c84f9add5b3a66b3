package conference

import (
	"time"

	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/validation"
	"github.com/go-playground/validator/v10"
)

type CreateConferencePayload struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	Topics       []string `json:"topics" validate:"max=20,dive,min=1,max=100"`
	City         string   `json:"city" validate:"max=100"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	MaxAttendees *int     `json:"maxAttendees" validate:"omitempty,min=0,max=1000000"`
}

func (p *CreateConferencePayload) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}
	_, _, err := parseDates(p.StartDate, p.EndDate)
	return err
}

// ToConference applies defaults and derives month and seats. On creation
// every seat is available.
func (p *CreateConferencePayload) ToConference(id int64, organizerUserID string) *Conference {
	start, end, _ := parseDates(p.StartDate, p.EndDate)

	c := &Conference{
		ID:              id,
		OrganizerUserID: organizerUserID,
		Name:            p.Name,
		Description:     p.Description,
		Topics:          model.OrDefault(p.Topics, DefaultTopics),
		City:            p.City,
		StartDate:       start,
		EndDate:         end,
		Month:           MonthOf(start),
	}
	if c.City == "" {
		c.City = DefaultCity
	}
	if p.MaxAttendees != nil && *p.MaxAttendees > 0 {
		c.MaxAttendees = *p.MaxAttendees
		c.SeatsAvailable = *p.MaxAttendees
	}
	return c
}

func parseDates(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	var problems validation.CustomValidationErrors

	start, err := model.ParseDate(startRaw)
	if err != nil {
		problems = append(problems, validation.CustomValidationError{Field: "startDate", Message: err.Error()})
	}
	end, err := model.ParseDate(endRaw)
	if err != nil {
		problems = append(problems, validation.CustomValidationError{Field: "endDate", Message: err.Error()})
	}
	if start != nil && end != nil && end.Before(*start) {
		problems = append(problems, validation.CustomValidationError{Field: "endDate", Message: "must not be before startDate"})
	}

	if len(problems) > 0 {
		return nil, nil, problems
	}
	return start, end, nil
}

// ------------------------------------------------------------

type GetConferencePayload struct {
	WebsafeConferenceKey string `param:"websafeConferenceKey" validate:"required"`
}

func (p *GetConferencePayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

// UpdateConferencePayload changes an existing conference. Nil fields are
// left untouched.
type UpdateConferencePayload struct {
	WebsafeConferenceKey string    `param:"websafeConferenceKey" validate:"required"`
	Name                 *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description          *string   `json:"description" validate:"omitempty,max=2000"`
	Topics               *[]string `json:"topics" validate:"omitempty,max=20,dive,min=1,max=100"`
	City                 *string   `json:"city" validate:"omitempty,max=100"`
	StartDate            *string   `json:"startDate"`
	EndDate              *string   `json:"endDate"`
	MaxAttendees         *int      `json:"maxAttendees" validate:"omitempty,min=0,max=1000000"`
}

func (p *UpdateConferencePayload) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}
	_, _, err := parseDates(deref(p.StartDate), deref(p.EndDate))
	return err
}

// Apply copies the provided fields onto c. Changing MaxAttendees keeps the
// existing registrations, so SeatsAvailable moves by the same amount; the
// caller must reject the update if that would go negative.
func (p *UpdateConferencePayload) Apply(c *Conference) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Topics != nil {
		c.Topics = model.OrDefault(*p.Topics, DefaultTopics)
	}
	if p.City != nil {
		c.City = *p.City
		if c.City == "" {
			c.City = DefaultCity
		}
	}
	if p.StartDate != nil {
		c.StartDate, _ = model.ParseDate(*p.StartDate)
		c.Month = MonthOf(c.StartDate)
	}
	if p.EndDate != nil {
		c.EndDate, _ = model.ParseDate(*p.EndDate)
	}
	if p.MaxAttendees != nil {
		registered := c.Registered()
		c.MaxAttendees = *p.MaxAttendees
		c.SeatsAvailable = c.MaxAttendees - registered
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ------------------------------------------------------------

type QueryConferencesPayload struct {
	Filters []QueryFilter `json:"filters" validate:"max=10,dive"`
}

// QueryFilter is one client supplied condition, e.g.
// {"field": "CITY", "operator": "EQ", "value": "London"}.
type QueryFilter struct {
	Field    string `json:"field" validate:"required"`
	Operator string `json:"operator" validate:"required"`
	Value    string `json:"value"`
}

func (p *QueryConferencesPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
