package service

import (
	"context"

	"github.com/deppfellow/conference-central/internal/cache"
	"github.com/deppfellow/conference-central/internal/idgen"
	"github.com/deppfellow/conference-central/internal/lib/job"
	"github.com/deppfellow/conference-central/internal/repository"
	"github.com/deppfellow/conference-central/internal/server"
)

// TaskDispatcher queues background work. job.Dispatcher implements it.
type TaskDispatcher interface {
	DispatchConferenceCreated(ctx context.Context, p job.ConferenceCreatedPayload) error
	DispatchFeaturedSpeaker(ctx context.Context, p job.FeaturedSpeakerPayload) error
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Store    repository.Store
	Cache    cache.Cache
	IDs      idgen.Generator
	Tasks    TaskDispatcher
	Identity IdentityProvider
}

type Services struct {
	Auth       *AuthService
	Profile    *ProfileService
	Conference *ConferenceService
	Session    *SessionService
	Speaker    *SpeakerService
	Wishlist   *WishlistService
}

// NewService wires the services against the server's resources.
func NewService(s *server.Server, repos repository.Store) (*Services, error) {
	authService := NewAuthService(s)

	services := New(Deps{
		Store:    repos,
		Cache:    s.Cache,
		IDs:      idgen.Default(),
		Tasks:    s.Job.Dispatcher(),
		Identity: authService,
	})
	services.Auth = authService

	return services, nil
}

// New builds every service except Auth from d.
func New(d Deps) *Services {
	profiles := &ProfileService{Deps: d}

	return &Services{
		Profile:    profiles,
		Conference: &ConferenceService{Deps: d, profiles: profiles},
		Session:    &SessionService{Deps: d},
		Speaker:    &SpeakerService{Deps: d},
		Wishlist:   &WishlistService{Deps: d, profiles: profiles},
	}
}
