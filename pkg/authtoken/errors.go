package authtoken

import "errors"

var (
	// ErrInvalidToken is returned for every verification failure: bad
	// signature, expired token, wrong audience, or kind mismatch. The causes
	// are deliberately indistinguishable to callers.
	ErrInvalidToken = errors.New("authtoken: invalid token")

	ErrUnsupportedKind = errors.New("authtoken: unsupported token kind")
	ErrMissingSecret   = errors.New("authtoken: missing signing secret")
	ErrMissingIssuer   = errors.New("authtoken: missing issuer")
	ErrMissingAudience = errors.New("authtoken: missing audience")
	ErrFailedToSign    = errors.New("authtoken: failed to sign token")
)
