package auth

import (
	"encoding/json"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// Provider identifies an authentication method. Email/password is modeled
// as a provider like any other so a user's credentials are uniformly a set
// of identities.
type Provider string

const (
	ProviderEmail   Provider = "email"
	ProviderGoogle  Provider = "google"
	ProviderGithub  Provider = "github"
	ProviderDiscord Provider = "discord"
)

// User is an identity-independent account. It is created at email sign-up
// or at the first OAuth login for a previously unknown email, and is never
// deleted by this core.
type User struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     string // empty for OAuth-only accounts
	EmailConfirmedAt *time.Time
	Phone            string
	PhoneConfirmedAt *time.Time
	IsAdmin          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser constructs a user with a fresh id and creation timestamps.
// passwordHash may be empty for accounts created through an OAuth provider.
func NewUser(email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Identity binds a (provider, provider user id) pair to a local user. The
// pair is globally unique; a user holds at most one identity per provider
// and any number across providers.
type Identity struct {
	UserID         uuid.UUID
	Provider       Provider
	ProviderUserID string
	Email          string
	EmailConfirmed bool
	ProviderData   json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrphanIdentity is identity data produced by an OAuth callback before it
// is matched to a user. It is never persisted in this shape: it is either
// bound to a new or existing user, or discarded.
type OrphanIdentity struct {
	Provider       Provider
	ProviderUserID string
	Email          string
	EmailConfirmed bool
	ProviderData   json.RawMessage
}

// Bind upgrades the orphan identity into an Identity owned by the given user.
func (o OrphanIdentity) Bind(userID uuid.UUID) *Identity {
	now := time.Now()
	return &Identity{
		UserID:         userID,
		Provider:       o.Provider,
		ProviderUserID: o.ProviderUserID,
		Email:          o.Email,
		EmailConfirmed: o.EmailConfirmed,
		ProviderData:   o.ProviderData,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Session records one successful sign-in. Sessions are never mutated; a
// session is logically invalidated by deleting its refresh-token cache
// entry.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserAgent string
	IP        netip.Addr
	CreatedAt time.Time
}

// NewSession constructs a session with a fresh id and creation timestamp.
func NewSession(userID uuid.UUID, userAgent string, ip netip.Addr) *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		CreatedAt: time.Now(),
	}
}

// TokenPair is the access/refresh token pair issued for one session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
