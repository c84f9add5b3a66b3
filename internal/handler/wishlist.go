package handler

import (
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	Handler
	wishlistService *service.WishlistService
}

func NewWishlistHandler(s *server.Server, wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		Handler:         NewHandler(s),
		wishlistService: wishlistService,
	}
}

func (h *WishlistHandler) AddSessionToWishlist(c echo.Context, payload *session.WishlistPayload) (*profile.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	return h.wishlistService.Add(c.Request().Context(), userID, payload.WebsafeSessionKey)
}

func (h *WishlistHandler) GetSessionsInWishlist(c echo.Context, _ *model.EmptyPayload) (model.Items[*session.Form], error) {
	userID, err := currentUser(c)
	if err != nil {
		return model.Items[*session.Form]{}, err
	}

	forms, err := h.wishlistService.Sessions(c.Request().Context(), userID)
	return model.NewItems(forms), err
}

func (h *WishlistHandler) DeleteSessionInWishlist(c echo.Context, payload *session.WishlistPayload) (*profile.Form, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	return h.wishlistService.Delete(c.Request().Context(), userID, payload.WebsafeSessionKey)
}

func (h *WishlistHandler) GetNotRegisteredWishlist(c echo.Context, _ *model.EmptyPayload) (model.Items[*conference.Form], error) {
	userID, err := currentUser(c)
	if err != nil {
		return model.Items[*conference.Form]{}, err
	}

	forms, err := h.wishlistService.NotRegistered(c.Request().Context(), userID)
	return model.NewItems(forms), err
}
