package speaker

import (
	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/go-playground/validator/v10"
)

type Speaker struct {
	ID           int64  `db:"id"`
	Speaker      string `db:"speaker"`
	Organization string `db:"organization"`
	model.Timestamps
}

func KeyFor(id int64) *key.Key {
	return key.New(key.KindSpeaker, id, nil)
}

func (s *Speaker) Key() *key.Key {
	return KeyFor(s.ID)
}

type Form struct {
	Speaker           string `json:"speaker"`
	Organization      string `json:"organization"`
	WebsafeSpeakerKey string `json:"websafeSpeakerKey"`
}

func (s *Speaker) ToForm() *Form {
	return &Form{
		Speaker:           s.Speaker,
		Organization:      s.Organization,
		WebsafeSpeakerKey: s.Key().Encode(),
	}
}

// ------------------------------------------------------------

type CreateSpeakerPayload struct {
	Speaker      string `json:"speaker" validate:"required,max=200"`
	Organization string `json:"organization" validate:"max=200"`
}

func (p *CreateSpeakerPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

type GetSpeakerPayload struct {
	WebsafeSpeakerKey string `query:"websafeSpeakerKey" validate:"required"`
}

func (p *GetSpeakerPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

// QuerySpeakerPayload matches speakers by exact name and, when given,
// organization.
type QuerySpeakerPayload struct {
	Speaker      string `query:"speaker" validate:"required"`
	Organization string `query:"organization"`
}

func (p *QuerySpeakerPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
