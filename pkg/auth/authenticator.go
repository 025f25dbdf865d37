package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/authtoken"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// Config holds the Authenticator's policy knobs. Callback URLs are only
// used to build outbound links; the HTTP handlers serving them live outside
// this core.
type Config struct {
	// AllowUnverifiedSignIn permits password sign-in before the account's
	// email is confirmed.
	AllowUnverifiedSignIn bool `env:"AUTH_ALLOW_UNVERIFIED_SIGNIN" envDefault:"false"`

	ConfirmEmailURL  string `env:"AUTH_CONFIRM_EMAIL_URL,required"`
	ResetPasswordURL string `env:"AUTH_RESET_PASSWORD_URL,required"`
}

// Stores groups the durable-store collaborators injected into the
// Authenticator.
type Stores struct {
	Users      UserStore
	Identities IdentityStore
	Sessions   SessionStore
}

// Authenticator orchestrates every authentication use case. Its state is
// limited to injected collaborators; a single instance is safe for
// concurrent use.
type Authenticator struct {
	cfg      Config
	users    UserStore
	ids      IdentityStore
	sessions SessionStore
	cache    TokenCache
	tokens   *authtoken.Factory
	mailer   Mailer

	logger           *slog.Logger
	passwordStrength validator.PasswordStrengthConfig
	mailTimeout      time.Duration
}

// Option configures an Authenticator during construction.
type Option func(*Authenticator)

// WithLogger sets the logger used for non-fatal collaborator failures.
func WithLogger(log *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = log
	}
}

// WithPasswordStrength overrides the password policy applied at sign-up and
// password reset.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) Option {
	return func(a *Authenticator) {
		a.passwordStrength = cfg
	}
}

// WithMailTimeout bounds each fire-and-forget mail delivery attempt.
func WithMailTimeout(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.mailTimeout = d
		}
	}
}

// NewAuthenticator wires the use-case orchestrator. All collaborators are
// required; the logger defaults to discard.
func NewAuthenticator(cfg Config, stores Stores, cache TokenCache, tokens *authtoken.Factory, mailer Mailer, opts ...Option) *Authenticator {
	a := &Authenticator{
		cfg:              cfg,
		users:            stores.Users,
		ids:              stores.Identities,
		sessions:         stores.Sessions,
		cache:            cache,
		tokens:           tokens,
		mailer:           mailer,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		passwordStrength: validator.DefaultPasswordStrength(),
		mailTimeout:      10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignUpWithEmail registers a new account with an Argon2id password hash and
// an email-provider identity, then sends a confirmation email. Mail delivery
// runs detached: its failure is logged, never returned.
//
// The email-uniqueness lookup is an optimization only; the authoritative
// check is the store's unique constraint, surfaced as ErrConflict on insert.
// Either path reports ErrEmailAlreadyUsed.
func (a *Authenticator) SignUpWithEmail(ctx context.Context, email, password string) (uuid.UUID, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.StrongPassword("password", password, a.passwordStrength),
	); err != nil {
		return uuid.Nil, err
	}

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return uuid.Nil, ErrEmailAlreadyUsed
	} else if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, a.internal("check existing email", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return uuid.Nil, a.internal("hash password", err)
	}

	user := NewUser(email, hash)
	if err := a.users.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return uuid.Nil, ErrEmailAlreadyUsed
		}
		return uuid.Nil, a.internal("insert user", err)
	}

	identity := &Identity{
		UserID:         user.ID,
		Provider:       ProviderEmail,
		ProviderUserID: user.ID.String(),
		Email:          email,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if err := a.ids.Insert(ctx, identity); err != nil {
		return uuid.Nil, a.internal("insert email identity", err)
	}

	a.sendConfirmationEmail(user.ID, email)

	return user.ID, nil
}

// SignInWithEmail authenticates an email/password pair and opens a session.
// Absent user, absent hash, and hash mismatch all collapse into
// ErrInvalidCredentials.
func (a *Authenticator) SignInWithEmail(ctx context.Context, email, password, userAgent string, ip netip.Addr) (*TokenPair, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, a.internal("get user by email", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, a.internal("verify password", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.EmailConfirmedAt == nil && !a.cfg.AllowUnverifiedSignIn {
		return nil, ErrNotVerifiedAccount
	}

	return a.CreateUserSession(ctx, user.ID, userAgent, ip, nil)
}

// CreateUserSession persists a session row, issues the access/refresh token
// pair, and registers the refresh token's single-use identifier in the
// revocation cache under the (user, session) pair. Shared by email and
// OAuth sign-in. Every step is required: a failed session insert or cache
// write aborts the sign-in rather than issuing tokens that cannot be
// revoked.
func (a *Authenticator) CreateUserSession(ctx context.Context, userID uuid.UUID, userAgent string, ip netip.Addr, data json.RawMessage) (*TokenPair, error) {
	session := NewSession(userID, userAgent, ip)
	if err := a.sessions.Insert(ctx, session); err != nil {
		return nil, a.internal("insert session", err)
	}

	access, err := a.tokens.CreateAccessToken(userID, session.ID, data)
	if err != nil {
		return nil, a.internal("create access token", err)
	}

	refresh, tokenID, err := a.tokens.CreateRefreshToken(userID, session.ID)
	if err != nil {
		return nil, a.internal("create refresh token", err)
	}

	if err := a.cache.SetWithTTL(ctx, refreshTokenKey(userID, session.ID), tokenID, a.tokens.RefreshTTL()); err != nil {
		return nil, a.internal("register refresh token", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ConfirmEmail redeems a confirm-email token. The confirmation-timestamp
// update is idempotent: re-confirming an already-confirmed account returns
// false, not an error.
func (a *Authenticator) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	claims, err := a.tokens.Decode(token, authtoken.KindConfirmEmail)
	if err != nil {
		return false, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return false, ErrInvalidToken
	}

	confirmed, err := a.users.ConfirmEmail(ctx, userID)
	if err != nil {
		return false, a.internal("confirm email", err)
	}
	return confirmed, nil
}

// InitiateResetPassword generates a single-use reset identifier, stores it
// in the cache with the reset-token TTL, and emails a reset link carrying a
// token that embeds the identifier.
//
// An unknown email reports ErrInvalidCredentials; boundary callers are
// expected to present a uniform response regardless of outcome so the
// endpoint cannot be used to enumerate accounts.
func (a *Authenticator) InitiateResetPassword(ctx context.Context, email string) error {
	email = sanitizer.NormalizeEmail(email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return a.internal("get user by email", err)
	}

	tokenID := uuid.New().String()
	ttl := a.tokens.ResetPasswordTTL()
	if err := a.cache.SetWithTTL(ctx, resetPasswordKey(user.ID, tokenID), tokenID, ttl); err != nil {
		return a.internal("store reset token", err)
	}

	token, err := a.tokens.CreateGenericToken(authtoken.KindResetPassword, user.ID, 0, tokenID)
	if err != nil {
		return a.internal("create reset token", err)
	}

	a.sendPasswordResetEmail(user.ID, email, token)

	return nil
}

// ResetPassword redeems a reset-password token and stores a new password
// hash. The single-use identifier is consumed with an atomic get-and-delete:
// never issued, expired, or already redeemed all report ErrInvalidToken, and
// under concurrent redemption exactly one caller succeeds.
func (a *Authenticator) ResetPassword(ctx context.Context, token, newPassword string) (bool, error) {
	if err := validator.Apply(
		validator.StrongPassword("password", newPassword, a.passwordStrength),
	); err != nil {
		return false, err
	}

	claims, err := a.tokens.Decode(token, authtoken.KindResetPassword)
	if err != nil {
		return false, ErrInvalidToken
	}
	if claims.ID == "" {
		return false, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return false, ErrInvalidToken
	}

	if _, err := a.cache.GetAndDelete(ctx, resetPasswordKey(userID, claims.ID)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrInvalidToken
		}
		return false, a.internal("consume reset token", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return false, a.internal("hash password", err)
	}

	updated, err := a.users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return false, a.internal("update password", err)
	}
	return updated, nil
}

// SignOut revokes the session's refresh token. An absent cache entry is a
// no-op false, not an error: the session was already signed out or expired.
func (a *Authenticator) SignOut(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	revoked, err := a.cache.Delete(ctx, refreshTokenKey(userID, sessionID))
	if err != nil {
		return false, a.internal("delete refresh token", err)
	}
	return revoked, nil
}

// IsSessionActive reports whether the session's refresh token is still
// registered in the revocation cache.
func (a *Authenticator) IsSessionActive(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	active, err := a.cache.Exists(ctx, refreshTokenKey(userID, sessionID))
	if err != nil {
		return false, a.internal("check refresh token", err)
	}
	return active, nil
}

func (a *Authenticator) sendConfirmationEmail(userID uuid.UUID, email string) {
	token, err := a.tokens.CreateGenericToken(authtoken.KindConfirmEmail, userID, 0, "")
	if err != nil {
		a.logger.Error("failed to create confirm-email token",
			logger.UserID(userID.String()),
			logger.Error(err),
			logger.Component("authenticator"),
		)
		return
	}

	link := callbackLink(a.cfg.ConfirmEmailURL, token)
	a.deliver("confirmation email", userID, func(ctx context.Context) error {
		return a.mailer.SendConfirmationEmail(ctx, email, link)
	})
}

func (a *Authenticator) sendPasswordResetEmail(userID uuid.UUID, email, token string) {
	link := callbackLink(a.cfg.ResetPasswordURL, token)
	a.deliver("password reset email", userID, func(ctx context.Context) error {
		return a.mailer.SendPasswordResetEmail(ctx, email, link)
	})
}

// deliver runs a mail send detached from the triggering use case. The
// goroutine gets its own deadline-bound context so caller cancellation
// cannot abort a delivery that was already owed to the user.
func (a *Authenticator) deliver(what string, userID uuid.UUID, send func(context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("mail delivery panicked",
					slog.String("mail", what),
					logger.UserID(userID.String()),
					slog.Any("panic", r),
					logger.Component("authenticator"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), a.mailTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			a.logger.Error("failed to send "+what,
				logger.UserID(userID.String()),
				logger.Error(err),
				logger.Component("authenticator"),
			)
		}
	}()
}

// internal logs the collaborator failure with its real cause and returns
// the taxonomy's opaque ErrInternal.
func (a *Authenticator) internal(op string, err error) error {
	a.logger.Error("collaborator call failed",
		slog.String("op", op),
		logger.Error(err),
		logger.Component("authenticator"),
	)
	return fmt.Errorf("%w: %s", ErrInternal, op)
}

func callbackLink(base, token string) string {
	return base + "?token=" + url.QueryEscape(token)
}

func refreshTokenKey(userID, sessionID uuid.UUID) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID, sessionID)
}

func resetPasswordKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("reset_password:%s:%s", userID, tokenID)
}
