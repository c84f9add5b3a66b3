package session

import (
	"testing"
	"time"

	"github.com/deppfellow/conference-central/internal/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("18:45:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 18, Minute: 45}, tod)
	assert.Equal(t, "18:45", tod.String())
	assert.Equal(t, 18*time.Hour+45*time.Minute, tod.Duration())
	assert.Equal(t, tod, TimeOfDayFromDuration(tod.Duration()))

	_, err = ParseTimeOfDay("6pm")
	assert.Error(t, err)
}

func TestCreateSessionDefaults(t *testing.T) {
	p := &CreateSessionPayload{
		Name:                 "Intro to Go",
		WebsafeSpeakerKey:    "s",
		WebsafeConferenceKey: "c",
	}
	require.NoError(t, p.Validate())

	s := p.ToSession(9, 3, "user_1", 7, "Rob")
	assert.Equal(t, DefaultTypeOfSession, s.TypeOfSession)
	assert.Equal(t, DefaultHighlights, s.Highlights)
	assert.Equal(t, DefaultDuration, s.Duration)
	assert.Equal(t, "08:00", s.StartTime.String())
	assert.Nil(t, s.Date)

	k := s.Key()
	assert.Equal(t, key.KindSession, k.Kind())
	assert.Equal(t, int64(3), k.Parent().ID())
	assert.Equal(t, "user_1", k.Parent().Parent().Name())

	form := s.ToForm()
	assert.Equal(t, "Rob", form.Speaker)
	assert.Equal(t, s.ConferenceKey().Encode(), form.WebsafeConferenceKey)
}

func TestCreateSessionValidation(t *testing.T) {
	p := &CreateSessionPayload{Name: "x", WebsafeSpeakerKey: "s", WebsafeConferenceKey: "c", StartTime: "noon"}
	assert.Error(t, p.Validate())

	p = &CreateSessionPayload{Name: "x", WebsafeConferenceKey: "c"}
	assert.Error(t, p.Validate())
}

func TestIsWorkshop(t *testing.T) {
	assert.True(t, (&Session{TypeOfSession: []string{"Lecture", "Workshop"}}).IsWorkshop())
	assert.False(t, (&Session{TypeOfSession: []string{"workshop"}}).IsWorkshop())
}

func TestByDurationRequiresDuration(t *testing.T) {
	assert.Error(t, (&ByDurationPayload{}).Validate())
	assert.Error(t, (&ByDurationPayload{Duration: -5}).Validate())
	assert.NoError(t, (&ByDurationPayload{Duration: 45}).Validate())
}
