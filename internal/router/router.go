// Package router builds the echo instance: global middleware, system
// routes and the /api/v1 endpoints.
package router

import (
	"net/http"

	"github.com/deppfellow/conference-central/internal/handler"
	"github.com/deppfellow/conference-central/internal/middleware"
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerProfileRoutes(v1, h, middlewares.Auth)
	registerConferenceRoutes(v1, h, middlewares.Auth)
	registerSessionRoutes(v1, h, middlewares.Auth)
	registerSpeakerRoutes(v1, h, middlewares.Auth)
	registerWishlistRoutes(v1, h, middlewares.Auth)

	return router
}

func registerProfileRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	ph := h.Profile

	g.GET("/profile", handler.Handle(ph.Handler, ph.GetProfile, http.StatusOK, &profile.GetProfilePayload{}), auth.RequireAuth)
	g.POST("/profile", handler.Handle(ph.Handler, ph.SaveProfile, http.StatusOK, &profile.SaveProfilePayload{}), auth.RequireAuth)
}

func registerConferenceRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	ch := h.Conference

	g.POST("/conference", handler.Handle(ch.Handler, ch.CreateConference, http.StatusOK, &conference.CreateConferencePayload{}), auth.RequireAuth)
	g.GET("/conference/announcement/get", handler.Handle(ch.Handler, ch.GetAnnouncement, http.StatusOK, &model.EmptyPayload{}))
	g.GET("/conference/:websafeConferenceKey", handler.Handle(ch.Handler, ch.GetConference, http.StatusOK, &conference.GetConferencePayload{}))
	g.PUT("/conference/:websafeConferenceKey", handler.Handle(ch.Handler, ch.UpdateConference, http.StatusOK, &conference.UpdateConferencePayload{}), auth.RequireAuth)
	g.POST("/conference/:websafeConferenceKey/registration", handler.Handle(ch.Handler, ch.RegisterForConference, http.StatusOK, &conference.GetConferencePayload{}), auth.RequireAuth)
	g.DELETE("/conference/:websafeConferenceKey/registration", handler.Handle(ch.Handler, ch.UnregisterFromConference, http.StatusOK, &conference.GetConferencePayload{}), auth.RequireAuth)

	g.POST("/queryConferences", handler.Handle(ch.Handler, ch.QueryConferences, http.StatusOK, &conference.QueryConferencesPayload{}))
	g.POST("/getConferencesCreated", handler.Handle(ch.Handler, ch.GetConferencesCreated, http.StatusOK, &model.EmptyPayload{}), auth.RequireAuth)
	g.GET("/conferences/attending", handler.Handle(ch.Handler, ch.GetConferencesToAttend, http.StatusOK, &model.EmptyPayload{}), auth.RequireAuth)
	g.POST("/filterPlayground", handler.Handle(ch.Handler, ch.FilterPlayground, http.StatusOK, &model.EmptyPayload{}))
}

func registerSessionRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	sh := h.Session

	g.POST("/session", handler.Handle(sh.Handler, sh.CreateSession, http.StatusOK, &session.CreateSessionPayload{}), auth.RequireAuth)
	g.GET("/featuredspeaker", handler.Handle(sh.Handler, sh.GetFeaturedSpeaker, http.StatusOK, &session.FeaturedSpeakerPayload{}))

	sessions := g.Group("/sessions")
	sessions.GET("/byconference", handler.Handle(sh.Handler, sh.GetConferenceSessions, http.StatusOK, &session.ByConferencePayload{}))
	sessions.GET("/bytype", handler.Handle(sh.Handler, sh.GetConferenceSessionsByType, http.StatusOK, &session.ByTypePayload{}), auth.RequireAuth)
	sessions.GET("/byspeaker", handler.Handle(sh.Handler, sh.GetSessionsBySpeaker, http.StatusOK, &session.BySpeakerPayload{}))
	sessions.GET("/beforeseven", handler.Handle(sh.Handler, sh.BeforeSevenNonWorkshop, http.StatusOK, &model.EmptyPayload{}))
	sessions.GET("/byhighlights", handler.Handle(sh.Handler, sh.GetSessionsByHighlights, http.StatusOK, &session.ByHighlightsPayload{}))
	sessions.GET("/byduration", handler.Handle(sh.Handler, sh.GetSessionsByDuration, http.StatusOK, &session.ByDurationPayload{}))
}

func registerSpeakerRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	sp := h.Speaker

	g.POST("/speaker/create", handler.Handle(sp.Handler, sp.CreateSpeaker, http.StatusOK, &speaker.CreateSpeakerPayload{}), auth.RequireAuth)
	g.GET("/speaker/getbywsk", handler.Handle(sp.Handler, sp.GetSpeaker, http.StatusOK, &speaker.GetSpeakerPayload{}))
	g.GET("/queryspeaker", handler.Handle(sp.Handler, sp.QuerySpeaker, http.StatusOK, &speaker.QuerySpeakerPayload{}))
}

func registerWishlistRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	wh := h.Wishlist

	wishlist := g.Group("/wishlist", auth.RequireAuth)
	wishlist.GET("", handler.Handle(wh.Handler, wh.GetSessionsInWishlist, http.StatusOK, &model.EmptyPayload{}))
	wishlist.POST("/add", handler.Handle(wh.Handler, wh.AddSessionToWishlist, http.StatusOK, &session.WishlistPayload{}))
	wishlist.POST("/delete", handler.Handle(wh.Handler, wh.DeleteSessionInWishlist, http.StatusOK, &session.WishlistPayload{}))
	wishlist.GET("/unregistered", handler.Handle(wh.Handler, wh.GetNotRegisteredWishlist, http.StatusOK, &model.EmptyPayload{}))
}
