package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/deppfellow/conference-central/internal/server"
)

// Identity is what the identity provider knows about a signed in user.
type Identity struct {
	UserID   string
	Nickname string
	Email    string
}

// IdentityProvider resolves an authenticated user id.
type IdentityProvider interface {
	Lookup(ctx context.Context, userID string) (*Identity, error)
}

// AuthService talks to Clerk, which also validates session tokens in
// middleware.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}

func (a *AuthService) Lookup(ctx context.Context, userID string) (*Identity, error) {
	u, err := user.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clerk user %s: %w", userID, err)
	}
	return identityFromUser(u), nil
}

func identityFromUser(u *clerk.User) *Identity {
	id := &Identity{UserID: u.ID}

	for _, addr := range u.EmailAddresses {
		if addr == nil {
			continue
		}
		if id.Email == "" || (u.PrimaryEmailAddressID != nil && addr.ID == *u.PrimaryEmailAddressID) {
			id.Email = addr.EmailAddress
		}
	}

	switch {
	case u.Username != nil && *u.Username != "":
		id.Nickname = *u.Username
	case u.FirstName != nil && *u.FirstName != "":
		id.Nickname = *u.FirstName
	default:
		id.Nickname, _, _ = strings.Cut(id.Email, "@")
	}
	return id
}
