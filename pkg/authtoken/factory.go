package authtoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Factory creates and validates signed tokens for all four token kinds.
// It is immutable after construction and safe for concurrent use.
type Factory struct {
	cfg    Config
	parser *jwt.Parser
}

// New creates a token factory from the given configuration. Every secret,
// the issuer, and at least one audience value must be set.
func New(cfg Config) (*Factory, error) {
	if cfg.Issuer == "" {
		return nil, ErrMissingIssuer
	}
	if len(cfg.Audience) == 0 {
		return nil, ErrMissingAudience
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" || cfg.DefaultSecret == "" {
		return nil, ErrMissingSecret
	}

	return &Factory{
		cfg: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(cfg.Issuer),
		),
	}, nil
}

// CreateAccessToken issues a short-lived access token bound to a session.
// The data payload is carried opaque; the factory never inspects it.
func (f *Factory) CreateAccessToken(userID, sessionID uuid.UUID, data json.RawMessage) (string, error) {
	claims := f.baseClaims(KindAccess, userID.String(), f.cfg.AccessTTL)
	claims.SessionID = sessionID.String()
	claims.Data = data
	return f.sign(KindAccess, claims)
}

// CreateRefreshToken issues a long-lived refresh token. The returned tokenID
// is the token's unique jti claim; callers register it in the revocation
// cache so the token can be invalidated before its natural expiry.
func (f *Factory) CreateRefreshToken(userID, sessionID uuid.UUID) (token string, tokenID string, err error) {
	tokenID = uuid.New().String()
	claims := f.baseClaims(KindRefresh, userID.String(), f.cfg.RefreshTTL)
	claims.ID = tokenID
	claims.SessionID = sessionID.String()

	token, err = f.sign(KindRefresh, claims)
	if err != nil {
		return "", "", err
	}
	return token, tokenID, nil
}

// CreateGenericToken issues a confirm-email or reset-password token for the
// given subject. A zero ttlOverride falls back to the configured TTL for the
// kind. A non-empty singleUseID becomes the token's jti claim, which the
// reset-password flow tracks for at-most-once redemption.
func (f *Factory) CreateGenericToken(kind Kind, subject uuid.UUID, ttlOverride time.Duration, singleUseID string) (string, error) {
	if kind != KindConfirmEmail && kind != KindResetPassword {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	ttl := ttlOverride
	if ttl <= 0 {
		ttl = f.ttlFor(kind)
	}

	claims := f.baseClaims(kind, subject.String(), ttl)
	claims.ID = singleUseID
	return f.sign(kind, claims)
}

// Decode verifies a token against the secret selected by the expected kind
// and returns its claims. The embedded kind discriminant, audience, and
// expiry are all checked; every failure is reported as ErrInvalidToken.
func (f *Factory) Decode(tokenString string, expected Kind) (*Claims, error) {
	secret, err := f.secretFor(expected)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	if _, err := f.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}); err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Kind != expected {
		return nil, ErrInvalidToken
	}
	if !f.audienceAccepted(claims.Audience) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshTTL reports the configured refresh token lifetime. The session
// layer uses it to expire revocation-cache entries together with the token.
func (f *Factory) RefreshTTL() time.Duration {
	return f.cfg.RefreshTTL
}

// ResetPasswordTTL reports the configured reset-password token lifetime.
func (f *Factory) ResetPasswordTTL() time.Duration {
	return f.cfg.ResetPasswordTTL
}

func (f *Factory) baseClaims(kind Kind, subject string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    f.cfg.Issuer,
			Audience:  jwt.ClaimStrings(f.cfg.Audience),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
}

func (f *Factory) sign(kind Kind, claims *Claims) (string, error) {
	secret, err := f.secretFor(kind)
	if err != nil {
		return "", err
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Join(ErrFailedToSign, err)
	}
	return token, nil
}

func (f *Factory) secretFor(kind Kind) ([]byte, error) {
	switch kind {
	case KindAccess:
		return []byte(f.cfg.AccessSecret), nil
	case KindRefresh:
		return []byte(f.cfg.RefreshSecret), nil
	case KindConfirmEmail, KindResetPassword:
		return []byte(f.cfg.DefaultSecret), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

func (f *Factory) ttlFor(kind Kind) time.Duration {
	switch kind {
	case KindConfirmEmail:
		return f.cfg.ConfirmEmailTTL
	case KindResetPassword:
		return f.cfg.ResetPasswordTTL
	default:
		return 0
	}
}

func (f *Factory) audienceAccepted(aud jwt.ClaimStrings) bool {
	for _, a := range aud {
		if slices.Contains(f.cfg.Audience, a) {
			return true
		}
	}
	return false
}
