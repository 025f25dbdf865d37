package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/authtoken"
)

func TestAddOrLinkIdentity(t *testing.T) {
	t.Parallel()

	orphan := OrphanIdentity{
		Provider:       ProviderGoogle,
		ProviderUserID: "google-123",
		Email:          "user@example.com",
		EmailConfirmed: true,
		ProviderData:   json.RawMessage(`{"id":"google-123"}`),
	}

	t.Run("creates pre-confirmed user for verified provider email", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())

		env.users.On("GetByEmail", mock.Anything, orphan.Email).Return(nil, ErrNotFound)
		env.users.On("Insert", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Email == orphan.Email && u.PasswordHash == "" && u.EmailConfirmedAt != nil
		})).Return(nil)
		env.ids.On("Upsert", mock.Anything, mock.MatchedBy(func(id *Identity) bool {
			return id.Provider == ProviderGoogle && id.ProviderUserID == "google-123"
		})).Return(nil)

		identity, err := a.AddOrLinkIdentity(context.Background(), orphan)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, identity.UserID)
		env.users.AssertExpectations(t)
		env.ids.AssertExpectations(t)
	})

	t.Run("unverified provider email leaves account unconfirmed", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())
		unverified := orphan
		unverified.EmailConfirmed = false

		env.users.On("GetByEmail", mock.Anything, orphan.Email).Return(nil, ErrNotFound)
		env.users.On("Insert", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.EmailConfirmedAt == nil
		})).Return(nil)
		env.ids.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		_, err := a.AddOrLinkIdentity(context.Background(), unverified)
		require.NoError(t, err)
		env.users.AssertExpectations(t)
	})

	t.Run("attaches identity to existing user by email", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())
		existing := NewUser(orphan.Email, "hash")

		env.users.On("GetByEmail", mock.Anything, orphan.Email).Return(existing, nil)
		env.ids.On("Upsert", mock.Anything, mock.MatchedBy(func(id *Identity) bool {
			return id.UserID == existing.ID
		})).Return(nil)

		identity, err := a.AddOrLinkIdentity(context.Background(), orphan)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, identity.UserID)
		env.users.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("normalizes provider email before lookup", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())
		mixed := orphan
		mixed.Email = "User@EXAMPLE.com"
		existing := NewUser("user@example.com", "hash")

		env.users.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)
		env.ids.On("Upsert", mock.Anything, mock.MatchedBy(func(id *Identity) bool {
			return id.Email == "user@example.com"
		})).Return(nil)

		_, err := a.AddOrLinkIdentity(context.Background(), mixed)
		require.NoError(t, err)
		env.users.AssertExpectations(t)
	})

	t.Run("wraps store failures as internal", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())

		env.users.On("GetByEmail", mock.Anything, orphan.Email).Return(nil, errors.New("connection refused"))

		_, err := a.AddOrLinkIdentity(context.Background(), orphan)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestOAuthSignIn(t *testing.T) {
	t.Parallel()

	ip := netip.MustParseAddr("192.0.2.10")
	orphan := OrphanIdentity{
		Provider:       ProviderGithub,
		ProviderUserID: "987654",
		Email:          "dev@example.com",
		EmailConfirmed: true,
		ProviderData:   json.RawMessage(`{"id":987654,"login":"dev"}`),
	}

	t.Run("signs in existing identity without touching users", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())
		userID := uuid.New()
		stored := &Identity{
			UserID:         userID,
			Provider:       ProviderGithub,
			ProviderUserID: "987654",
			Email:          orphan.Email,
			EmailConfirmed: true,
			ProviderData:   orphan.ProviderData,
		}

		env.ids.On("GetByProviderIdentity", mock.Anything, ProviderGithub, "987654").Return(stored, nil)
		env.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)

		pair, err := a.OAuthSignIn(context.Background(), orphan, "test-agent", ip)
		require.NoError(t, err)

		access, err := env.factory.Decode(pair.AccessToken, authtoken.KindAccess)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), access.Subject)
		assert.JSONEq(t, string(orphan.ProviderData), string(access.Data))

		env.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("first login provisions user and identity", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())

		env.ids.On("GetByProviderIdentity", mock.Anything, ProviderGithub, "987654").Return(nil, ErrNotFound)
		env.users.On("GetByEmail", mock.Anything, orphan.Email).Return(nil, ErrNotFound)
		env.users.On("Insert", mock.Anything, mock.Anything).Return(nil)
		env.ids.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		env.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)

		pair, err := a.OAuthSignIn(context.Background(), orphan, "test-agent", ip)
		require.NoError(t, err)
		assert.NotNil(t, pair)
		env.ids.AssertExpectations(t)
	})

	t.Run("two sequential logins resolve to the same user", func(t *testing.T) {
		t.Parallel()

		a, env := newTestAuthenticator(t, newMemCache())

		var boundUserID uuid.UUID
		var upserted *Identity
		env.ids.On("GetByProviderIdentity", mock.Anything, ProviderGithub, "987654").
			Return(nil, ErrNotFound).Once()
		env.users.On("GetByEmail", mock.Anything, orphan.Email).Return(nil, ErrNotFound).Once()
		env.users.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { boundUserID = args.Get(1).(*User).ID }).
			Return(nil).Once()
		env.ids.On("Upsert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { upserted = args.Get(1).(*Identity) }).
			Return(nil).Once()
		env.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)

		first, err := a.OAuthSignIn(context.Background(), orphan, "test-agent", ip)
		require.NoError(t, err)

		// Second login finds the identity persisted by the first one.
		env.ids.On("GetByProviderIdentity", mock.Anything, ProviderGithub, "987654").
			Return(upserted, nil).Once()

		second, err := a.OAuthSignIn(context.Background(), orphan, "test-agent", ip)
		require.NoError(t, err)

		firstAccess, err := env.factory.Decode(first.AccessToken, authtoken.KindAccess)
		require.NoError(t, err)
		secondAccess, err := env.factory.Decode(second.AccessToken, authtoken.KindAccess)
		require.NoError(t, err)

		assert.Equal(t, boundUserID.String(), firstAccess.Subject)
		assert.Equal(t, firstAccess.Subject, secondAccess.Subject)
		assert.NotEqual(t, firstAccess.SessionID, secondAccess.SessionID)
	})
}

func TestOrphanIdentityBind(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	orphan := OrphanIdentity{
		Provider:       ProviderDiscord,
		ProviderUserID: "111222333",
		Email:          "gamer@example.com",
		EmailConfirmed: true,
		ProviderData:   json.RawMessage(`{"id":"111222333"}`),
	}

	identity := orphan.Bind(userID)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, orphan.Provider, identity.Provider)
	assert.Equal(t, orphan.ProviderUserID, identity.ProviderUserID)
	assert.Equal(t, orphan.Email, identity.Email)
	assert.True(t, identity.EmailConfirmed)
	assert.WithinDuration(t, time.Now(), identity.CreatedAt, time.Second)
}
