package handler

import (
	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/middleware"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/labstack/echo/v4"
)

// currentUser returns the authenticated user id. Routes behind RequireAuth
// always have one.
func currentUser(c echo.Context) (string, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return "", errs.NewUnauthorizedError("Authorization required", false)
	}
	return userID, nil
}

type ProfileHandler struct {
	Handler
	profileService *service.ProfileService
}

func NewProfileHandler(s *server.Server, profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		Handler:        NewHandler(s),
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfile(c echo.Context, _ *profile.GetProfilePayload) (*profile.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	p, err := h.profileService.GetOrCreate(c.Request().Context(), userID)
	if err != nil {
		return nil, err
	}
	return p.ToForm(), nil
}

func (h *ProfileHandler) SaveProfile(c echo.Context, payload *profile.SaveProfilePayload) (*profile.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	p, err := h.profileService.Save(c.Request().Context(), userID, payload)
	if err != nil {
		return nil, err
	}
	return p.ToForm(), nil
}
