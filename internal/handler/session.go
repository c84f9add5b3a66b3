package handler

import (
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	Handler
	sessionService *service.SessionService
}

func NewSessionHandler(s *server.Server, sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		Handler:        NewHandler(s),
		sessionService: sessionService,
	}
}

func (h *SessionHandler) CreateSession(c echo.Context, payload *session.CreateSessionPayload) (*session.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.sessionService.Create(c.Request().Context(), userID, payload)
}

func (h *SessionHandler) GetConferenceSessions(c echo.Context, payload *session.ByConferencePayload) (model.Items[*session.Form], error) {
	forms, err := h.sessionService.ByConference(c.Request().Context(), payload.WebsafeConferenceKey)
	return model.NewItems(forms), err
}

func (h *SessionHandler) GetConferenceSessionsByType(c echo.Context, payload *session.ByTypePayload) (model.Items[*session.Form], error) {
	forms, err := h.sessionService.ByType(c.Request().Context(), payload.WebsafeConferenceKey, payload.Type)
	return model.NewItems(forms), err
}

func (h *SessionHandler) GetSessionsBySpeaker(c echo.Context, payload *session.BySpeakerPayload) (model.Items[*session.Form], error) {
	forms, err := h.sessionService.BySpeaker(c.Request().Context(), payload.WebsafeSpeakerKey)
	return model.NewItems(forms), err
}

func (h *SessionHandler) BeforeSevenNonWorkshop(c echo.Context, _ *model.EmptyPayload) (model.Items[*session.Form], error) {
	forms, err := h.sessionService.BeforeSevenNonWorkshop(c.Request().Context())
	return model.NewItems(forms), err
}

func (h *SessionHandler) GetSessionsByHighlights(c echo.Context, payload *session.ByHighlightsPayload) (model.Items[*session.Form], error) {
	forms, err := h.sessionService.ByHighlights(c.Request().Context(), payload.Highlights)
	return model.NewItems(forms), err
}

func (h *SessionHandler) GetSessionsByDuration(c echo.Context, payload *session.ByDurationPayload) (model.Items[*session.Form], error) {
	forms, err := h.sessionService.ByDuration(c.Request().Context(), payload.Duration)
	return model.NewItems(forms), err
}

func (h *SessionHandler) GetFeaturedSpeaker(c echo.Context, payload *session.FeaturedSpeakerPayload) (*session.FeaturedSpeaker, error) {
	return h.sessionService.GetFeaturedSpeaker(c.Request().Context(), payload.WebsafeConferenceKey)
}
