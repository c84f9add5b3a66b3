package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	sess := f.create(t, session.CreateSessionPayload{Name: "Intro"})

	_, err := f.Wishlist.Add(ctx, "bob", f.conf.WebsafeKey)
	requireStatus(t, err, http.StatusBadRequest)

	prof, err := f.Wishlist.Add(ctx, "bob", sess.WebsafeSessionKey)
	require.NoError(t, err)
	assert.Equal(t, []string{sess.WebsafeSessionKey}, prof.WishList)

	_, err = f.Wishlist.Add(ctx, "bob", sess.WebsafeSessionKey)
	httpErr := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "The session is already on your wishlist.", httpErr.Message)

	wished, err := f.Wishlist.Sessions(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, wished, 1)
	assert.Equal(t, "Intro", wished[0].Name)

	prof, err = f.Wishlist.Delete(ctx, "bob", sess.WebsafeSessionKey)
	require.NoError(t, err)
	assert.Empty(t, prof.WishList)
	assert.NotNil(t, prof.WishList)

	_, err = f.Wishlist.Delete(ctx, "bob", sess.WebsafeSessionKey)
	httpErr = requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Session not on wishlist.", httpErr.Message)

	wished, err = f.Wishlist.Sessions(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, wished)
}

func TestWishlistMissingSession(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.create(t, session.CreateSessionPayload{Name: "Intro"})
	f.store.sessions = map[int64]session.Session{}

	_, err := f.Wishlist.Add(context.Background(), "bob", sess.WebsafeSessionKey)
	httpErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Session not found.", httpErr.Message)
}

func TestNotRegisteredWishlist(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	other := createConference(t, f.fixture, "alice", conference.CreateConferencePayload{Name: "Other", MaxAttendees: intPtr(10)})

	a := f.create(t, session.CreateSessionPayload{Name: "A"})
	b := f.create(t, session.CreateSessionPayload{Name: "B"})
	c := f.create(t, session.CreateSessionPayload{Name: "C", WebsafeConferenceKey: other.WebsafeKey})

	for _, s := range []*session.Form{a, b, c} {
		_, err := f.Wishlist.Add(ctx, "bob", s.WebsafeSessionKey)
		require.NoError(t, err)
	}

	confs, err := f.Wishlist.NotRegistered(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, confs, 2)
	assert.Equal(t, "GopherCon", confs[0].Name)
	assert.Equal(t, "Other", confs[1].Name)

	_, err = f.Conference.Register(ctx, "bob", other.WebsafeKey)
	require.NoError(t, err)

	confs, err = f.Wishlist.NotRegistered(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, confs, 1)
	assert.Equal(t, "GopherCon", confs[0].Name)
}
