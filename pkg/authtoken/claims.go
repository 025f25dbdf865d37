package authtoken

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// Kind identifies which secret and expiry policy govern a signed token.
// The set is closed; callers pass a Kind explicitly at every signing and
// verification site.
type Kind string

const (
	KindAccess        Kind = "access"
	KindRefresh       Kind = "refresh"
	KindConfirmEmail  Kind = "confirm_email"
	KindResetPassword Kind = "reset_password"
)

// Claims is the claim set carried by every token the factory issues.
//
// Kind is the explicit discriminant checked on decode. SessionID is set on
// access and refresh tokens only. Data carries an opaque payload (the
// identity's provider data) on access tokens. The registered ID claim (jti)
// holds the single-use identifier on refresh and reset-password tokens.
type Claims struct {
	jwt.RegisteredClaims

	Kind      Kind            `json:"knd"`
	SessionID string          `json:"sid,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}
