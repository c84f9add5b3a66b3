package handler

import (
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/labstack/echo/v4"
)

type SpeakerHandler struct {
	Handler
	speakerService *service.SpeakerService
}

func NewSpeakerHandler(s *server.Server, speakerService *service.SpeakerService) *SpeakerHandler {
	return &SpeakerHandler{
		Handler:        NewHandler(s),
		speakerService: speakerService,
	}
}

func (h *SpeakerHandler) CreateSpeaker(c echo.Context, payload *speaker.CreateSpeakerPayload) (*speaker.Form, error) {
	if _, err := currentUser(c); err != nil {
		return nil, err
	}
	return h.speakerService.Create(c.Request().Context(), payload)
}

func (h *SpeakerHandler) GetSpeaker(c echo.Context, payload *speaker.GetSpeakerPayload) (*speaker.Form, error) {
	return h.speakerService.Get(c.Request().Context(), payload.WebsafeSpeakerKey)
}

func (h *SpeakerHandler) QuerySpeaker(c echo.Context, payload *speaker.QuerySpeakerPayload) (model.Items[*speaker.Form], error) {
	forms, err := h.speakerService.Query(c.Request().Context(), payload)
	return model.NewItems(forms), err
}
