package conference

import (
	"time"

	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/profile"
)

// Defaults applied to fields a client leaves out on creation.
const DefaultCity = "Default City"

var DefaultTopics = []string{"Default", "Topic"}

// Conference is parented under its organizer's profile. SeatsAvailable
// never exceeds MaxAttendees and never drops below zero.
type Conference struct {
	ID              int64      `db:"id"`
	OrganizerUserID string     `db:"organizer_user_id"`
	Name            string     `db:"name"`
	Description     string     `db:"description"`
	Topics          []string   `db:"topics"`
	City            string     `db:"city"`
	StartDate       *time.Time `db:"start_date"`
	EndDate         *time.Time `db:"end_date"`
	Month           int        `db:"month"`
	MaxAttendees    int        `db:"max_attendees"`
	SeatsAvailable  int        `db:"seats_available"`
	model.Timestamps
}

func (c *Conference) Key() *key.Key {
	return key.New(key.KindConference, c.ID, profile.KeyFor(c.OrganizerUserID))
}

// Registered is the number of seats taken.
func (c *Conference) Registered() int {
	return c.MaxAttendees - c.SeatsAvailable
}

// DatesOrdered reports whether EndDate is not before StartDate. Missing
// dates are always in order.
func (c *Conference) DatesOrdered() bool {
	return c.StartDate == nil || c.EndDate == nil || !c.EndDate.Before(*c.StartDate)
}

// MonthOf derives the month column from a start date, 0 when unknown.
func MonthOf(startDate *time.Time) int {
	if startDate == nil {
		return 0
	}
	return int(startDate.Month())
}

// Form is the outbound representation of a conference.
type Form struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	OrganizerUserID      string   `json:"organizerUserId"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"startDate"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"maxAttendees"`
	SeatsAvailable       int      `json:"seatsAvailable"`
	EndDate              string   `json:"endDate"`
	WebsafeKey           string   `json:"websafeKey"`
	OrganizerDisplayName string   `json:"organizerDisplayName,omitempty"`
}

func (c *Conference) ToForm(organizerDisplayName string) *Form {
	return &Form{
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerUserID:      c.OrganizerUserID,
		Topics:               model.NonNil(c.Topics),
		City:                 c.City,
		StartDate:            model.FormatDate(c.StartDate),
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
		EndDate:              model.FormatDate(c.EndDate),
		WebsafeKey:           c.Key().Encode(),
		OrganizerDisplayName: organizerDisplayName,
	}
}

// ToForms converts a list without organizer names.
func ToForms(confs []*Conference) []*Form {
	forms := make([]*Form, 0, len(confs))
	for _, c := range confs {
		forms = append(forms, c.ToForm(""))
	}
	return forms
}
