package auth

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

// AddOrLinkIdentity resolves an orphan identity into a persisted Identity.
//
// If no user owns the orphan's email, a new user is created with the email
// pre-confirmed iff the provider asserted verification. Otherwise the
// identity attaches to the existing user. The upsert is keyed by
// (provider, provider user id), so re-authentication from the same provider
// account refreshes the stored profile data without duplication, and a
// different provider sharing the email becomes an additional identity on
// the same user.
func (a *Authenticator) AddOrLinkIdentity(ctx context.Context, orphan OrphanIdentity) (*Identity, error) {
	orphan.Email = sanitizer.NormalizeEmail(orphan.Email)

	user, err := a.users.GetByEmail(ctx, orphan.Email)
	switch {
	case err == nil:
		// Existing account; attach the identity below.
	case errors.Is(err, ErrNotFound):
		user = NewUser(orphan.Email, "")
		if orphan.EmailConfirmed {
			now := time.Now()
			user.EmailConfirmedAt = &now
		}
		if err := a.users.Insert(ctx, user); err != nil {
			return nil, a.internal("insert user for identity", err)
		}
	default:
		return nil, a.internal("get user by email", err)
	}

	identity := orphan.Bind(user.ID)
	if err := a.ids.Upsert(ctx, identity); err != nil {
		return nil, a.internal("upsert identity", err)
	}

	return identity, nil
}

// OAuthSignIn signs in the user behind a provider identity produced by the
// CSRF handshake, resolving or creating the local account first when the
// (provider, provider user id) pair is unknown. The identity's stored
// provider payload rides along as the session's opaque data and ends up in
// the access token.
func (a *Authenticator) OAuthSignIn(ctx context.Context, orphan OrphanIdentity, userAgent string, ip netip.Addr) (*TokenPair, error) {
	identity, err := a.ids.GetByProviderIdentity(ctx, orphan.Provider, orphan.ProviderUserID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, a.internal("get identity", err)
		}
		identity, err = a.AddOrLinkIdentity(ctx, orphan)
		if err != nil {
			return nil, err
		}
	}

	return a.CreateUserSession(ctx, identity.UserID, userAgent, ip, identity.ProviderData)
}
