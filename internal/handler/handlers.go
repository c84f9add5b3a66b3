package handler

import (
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Profile    *ProfileHandler
	Conference *ConferenceHandler
	Session    *SessionHandler
	Speaker    *SpeakerHandler
	Wishlist   *WishlistHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Profile:    NewProfileHandler(s, services.Profile),
		Conference: NewConferenceHandler(s, services.Conference),
		Session:    NewSessionHandler(s, services.Session),
		Speaker:    NewSpeakerHandler(s, services.Speaker),
		Wishlist:   NewWishlistHandler(s, services.Wishlist),
	}
}
