package handler

import (
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/labstack/echo/v4"
)

type ConferenceHandler struct {
	Handler
	conferenceService *service.ConferenceService
}

func NewConferenceHandler(s *server.Server, conferenceService *service.ConferenceService) *ConferenceHandler {
	return &ConferenceHandler{
		Handler:           NewHandler(s),
		conferenceService: conferenceService,
	}
}

func (h *ConferenceHandler) CreateConference(c echo.Context, payload *conference.CreateConferencePayload) (*conference.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.conferenceService.Create(c.Request().Context(), userID, payload)
}

func (h *ConferenceHandler) GetConference(c echo.Context, payload *conference.GetConferencePayload) (*conference.Form, error) {
	return h.conferenceService.Get(c.Request().Context(), payload.WebsafeConferenceKey)
}

func (h *ConferenceHandler) UpdateConference(c echo.Context, payload *conference.UpdateConferencePayload) (*conference.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.conferenceService.Update(c.Request().Context(), userID, payload)
}

func (h *ConferenceHandler) RegisterForConference(c echo.Context, payload *conference.GetConferencePayload) (model.BooleanMessage, error) {
	userID, err := currentUser(c)
	if err != nil {
		return model.BooleanMessage{}, err
	}

	ok, err := h.conferenceService.Register(c.Request().Context(), userID, payload.WebsafeConferenceKey)
	return model.BooleanMessage{Data: ok}, err
}

func (h *ConferenceHandler) UnregisterFromConference(c echo.Context, payload *conference.GetConferencePayload) (model.BooleanMessage, error) {
	userID, err := currentUser(c)
	if err != nil {
		return model.BooleanMessage{}, err
	}

	ok, err := h.conferenceService.Unregister(c.Request().Context(), userID, payload.WebsafeConferenceKey)
	return model.BooleanMessage{Data: ok}, err
}

func (h *ConferenceHandler) QueryConferences(c echo.Context, payload *conference.QueryConferencesPayload) (model.Items[*conference.Form], error) {
	forms, err := h.conferenceService.Query(c.Request().Context(), payload)
	return model.NewItems(forms), err
}

func (h *ConferenceHandler) GetConferencesCreated(c echo.Context, _ *model.EmptyPayload) (model.Items[*conference.Form], error) {
	userID, err := currentUser(c)
	if err != nil {
		return model.Items[*conference.Form]{}, err
	}

	forms, err := h.conferenceService.Created(c.Request().Context(), userID)
	return model.NewItems(forms), err
}

func (h *ConferenceHandler) GetConferencesToAttend(c echo.Context, _ *model.EmptyPayload) (model.Items[*conference.Form], error) {
	userID, err := currentUser(c)
	if err != nil {
		return model.Items[*conference.Form]{}, err
	}

	forms, err := h.conferenceService.Attending(c.Request().Context(), userID)
	return model.NewItems(forms), err
}

func (h *ConferenceHandler) FilterPlayground(c echo.Context, _ *model.EmptyPayload) (model.Items[*conference.Form], error) {
	forms, err := h.conferenceService.Playground(c.Request().Context())
	return model.NewItems(forms), err
}

func (h *ConferenceHandler) GetAnnouncement(c echo.Context, _ *model.EmptyPayload) (model.StringMessage, error) {
	announcement, err := h.conferenceService.GetAnnouncement(c.Request().Context())
	return model.StringMessage{Data: announcement}, err
}
