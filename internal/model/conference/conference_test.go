package conference

import (
	"testing"

	"github.com/deppfellow/conference-central/internal/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestCreatePayloadDefaults(t *testing.T) {
	p := &CreateConferencePayload{Name: "GopherCon"}
	require.NoError(t, p.Validate())

	c := p.ToConference(42, "user_1")
	assert.Equal(t, DefaultCity, c.City)
	assert.Equal(t, DefaultTopics, c.Topics)
	assert.Equal(t, 0, c.Month)
	assert.Equal(t, 0, c.MaxAttendees)
	assert.Equal(t, 0, c.SeatsAvailable)

	k := c.Key()
	assert.Equal(t, key.KindConference, k.Kind())
	assert.Equal(t, int64(42), k.ID())
	assert.Equal(t, "user_1", k.Parent().Name())
}

func TestCreatePayloadSeatsAndMonth(t *testing.T) {
	p := &CreateConferencePayload{
		Name:         "GopherCon",
		StartDate:    "2026-07-08T00:00:00",
		EndDate:      "2026-07-10",
		MaxAttendees: intPtr(300),
	}
	require.NoError(t, p.Validate())

	c := p.ToConference(1, "user_1")
	assert.Equal(t, 7, c.Month)
	assert.Equal(t, 300, c.SeatsAvailable)

	form := c.ToForm("Ada")
	assert.Equal(t, "2026-07-08", form.StartDate)
	assert.Equal(t, "2026-07-10", form.EndDate)
	assert.Equal(t, "Ada", form.OrganizerDisplayName)
	assert.Equal(t, c.Key().Encode(), form.WebsafeKey)
}

func TestCreatePayloadValidation(t *testing.T) {
	assert.Error(t, (&CreateConferencePayload{}).Validate())
	assert.Error(t, (&CreateConferencePayload{Name: "x", StartDate: "tomorrow"}).Validate())
	assert.Error(t, (&CreateConferencePayload{Name: "x", StartDate: "2026-07-10", EndDate: "2026-07-01"}).Validate())
	assert.Error(t, (&CreateConferencePayload{Name: "x", MaxAttendees: intPtr(-1)}).Validate())
}

func TestUpdatePayloadKeepsRegistrations(t *testing.T) {
	c := &Conference{Name: "Old", MaxAttendees: 100, SeatsAvailable: 60}

	p := &UpdateConferencePayload{
		WebsafeConferenceKey: "k",
		Name:                 strPtr("New"),
		StartDate:            strPtr("2026-11-02"),
		MaxAttendees:         intPtr(50),
	}
	require.NoError(t, p.Validate())
	p.Apply(c)

	assert.Equal(t, "New", c.Name)
	assert.Equal(t, 11, c.Month)
	assert.Equal(t, 50, c.MaxAttendees)
	assert.Equal(t, 10, c.SeatsAvailable)
	assert.Equal(t, 40, c.Registered())

	(&UpdateConferencePayload{MaxAttendees: intPtr(30)}).Apply(c)
	assert.Equal(t, -10, c.SeatsAvailable)
}
