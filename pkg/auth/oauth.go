package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

// OAuthClient is the per-provider collaborator behind the CSRF handshake.
// Implementations differ in endpoints and profile shape, but the produced
// contract is uniform: one OrphanIdentity or an error.
type OAuthClient interface {
	Provider() Provider

	// AuthorizeURL builds the provider authorization URL embedding the
	// given anti-forgery state token.
	AuthorizeURL(state string) string

	// ExchangeCode trades the authorization code for a provider access
	// token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile retrieves the provider profile for the access token and
	// maps it into an OrphanIdentity.
	FetchProfile(ctx context.Context, accessToken string) (OrphanIdentity, error)
}

// Handshake implements the OAuth CSRF redirect protocol in front of
// Authenticator.OAuthSignIn. The anti-forgery state lives in the shared
// expiring cache, addressed by an opaque cookie value, so callbacks can
// land on any instance of a multi-instance deployment.
type Handshake struct {
	clients  map[Provider]OAuthClient
	states   TokenCache
	logger   *slog.Logger
	stateTTL time.Duration
}

// HandshakeOption configures a Handshake during construction.
type HandshakeOption func(*Handshake)

// WithHandshakeLogger sets the logger for the handshake.
func WithHandshakeLogger(log *slog.Logger) HandshakeOption {
	return func(h *Handshake) {
		h.logger = log
	}
}

// WithStateTTL bounds how long an initiated handshake stays redeemable.
func WithStateTTL(ttl time.Duration) HandshakeOption {
	return func(h *Handshake) {
		if ttl > 0 {
			h.stateTTL = ttl
		}
	}
}

// NewHandshake assembles the immutable provider lookup table once from the
// configured clients. A provider absent from the table yields
// ErrUnsupportedProvider, not a special case.
func NewHandshake(states TokenCache, clients []OAuthClient, opts ...HandshakeOption) *Handshake {
	table := make(map[Provider]OAuthClient, len(clients))
	for _, client := range clients {
		table[client.Provider()] = client
	}

	h := &Handshake{
		clients:  table,
		states:   states,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Initiate starts the handshake for a provider. It generates a random
// anti-forgery token, stores it in the cache under a fresh opaque cookie
// value, and returns the provider authorization URL carrying the same token
// as its state parameter. The caller places cookieValue in a short-lived
// session cookie.
func (h *Handshake) Initiate(ctx context.Context, provider Provider) (authorizeURL, cookieValue string, err error) {
	client, ok := h.clients[provider]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	state, err := randomToken()
	if err != nil {
		return "", "", h.internal(provider, "generate state", err)
	}
	cookieValue, err = randomToken()
	if err != nil {
		return "", "", h.internal(provider, "generate cookie", err)
	}

	if err := h.states.SetWithTTL(ctx, oauthStateKey(cookieValue), state, h.stateTTL); err != nil {
		return "", "", h.internal(provider, "store state", err)
	}

	return client.AuthorizeURL(state), cookieValue, nil
}

// Callback completes the handshake. The stored state session is consumed
// (single use) whether validation passes or fails, and no provider network
// call happens before the returned state exactly matches the stored CSRF
// token. Mismatch, absence, and expiry all report ErrInvalidToken.
func (h *Handshake) Callback(ctx context.Context, provider Provider, code, state, cookieValue string) (*OrphanIdentity, error) {
	client, ok := h.clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	stored, err := h.states.GetAndDelete(ctx, oauthStateKey(cookieValue))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, h.internal(provider, "load state", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(state)) != 1 {
		return nil, ErrInvalidToken
	}

	accessToken, err := client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, h.internal(provider, "exchange code", err)
	}

	orphan, err := client.FetchProfile(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ErrNoProviderEmail) {
			return nil, ErrNoProviderEmail
		}
		return nil, h.internal(provider, "fetch profile", err)
	}

	return &orphan, nil
}

func (h *Handshake) internal(provider Provider, op string, err error) error {
	h.logger.Error("oauth handshake failed",
		slog.String("op", op),
		logger.Provider(string(provider)),
		logger.Error(err),
		logger.Component("oauth"),
	)
	return fmt.Errorf("%w: %s", ErrInternal, op)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func oauthStateKey(cookieValue string) string {
	return "oauth_state:" + cookieValue
}
