package profile

import (
	"slices"

	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/go-playground/validator/v10"
)

type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

// Profile is keyed by the authenticated user id. Registrations and the
// wishlist are stored as websafe keys.
type Profile struct {
	UserID                 string       `db:"user_id"`
	DisplayName            string       `db:"display_name"`
	MainEmail              string       `db:"main_email"`
	TeeShirtSize           TeeShirtSize `db:"tee_shirt_size"`
	ConferenceKeysToAttend []string     `db:"conference_keys_to_attend"`
	WishList               []string     `db:"wish_list"`
	model.Timestamps
}

// KeyFor returns the key of the profile owned by userID.
func KeyFor(userID string) *key.Key {
	return key.NewNamed(key.KindProfile, userID, nil)
}

func (p *Profile) Key() *key.Key {
	return KeyFor(p.UserID)
}

func (p *Profile) IsAttending(websafeConferenceKey string) bool {
	return slices.Contains(p.ConferenceKeysToAttend, websafeConferenceKey)
}

func (p *Profile) HasWished(websafeSessionKey string) bool {
	return slices.Contains(p.WishList, websafeSessionKey)
}

// Form is the outbound representation of a profile.
type Form struct {
	DisplayName            string       `json:"displayName"`
	MainEmail              string       `json:"mainEmail"`
	TeeShirtSize           TeeShirtSize `json:"teeShirtSize"`
	ConferenceKeysToAttend []string     `json:"conferenceKeysToAttend"`
	WishList               []string     `json:"wishList"`
}

func (p *Profile) ToForm() *Form {
	return &Form{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           p.TeeShirtSize,
		ConferenceKeysToAttend: model.NonNil(p.ConferenceKeysToAttend),
		WishList:               model.NonNil(p.WishList),
	}
}

// ------------------------------------------------------------

type GetProfilePayload struct{}

func (p *GetProfilePayload) Validate() error {
	return nil
}

// SaveProfilePayload updates the user-editable fields. Empty values leave
// the stored value alone.
type SaveProfilePayload struct {
	DisplayName  string       `json:"displayName" validate:"max=100"`
	TeeShirtSize TeeShirtSize `json:"teeShirtSize" validate:"omitempty,oneof=NOT_SPECIFIED XS_M XS_W S_M S_W M_M M_W L_M L_W XL_M XL_W XXL_M XXL_W XXXL_M XXXL_W"`
}

func (p *SaveProfilePayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Apply copies the non-empty fields onto prof.
func (p *SaveProfilePayload) Apply(prof *Profile) {
	if p.DisplayName != "" {
		prof.DisplayName = p.DisplayName
	}
	if p.TeeShirtSize != "" {
		prof.TeeShirtSize = p.TeeShirtSize
	}
}
