// Package authtoken issues and validates the signed tokens used by the
// authentication core: short-lived access tokens, long-lived refresh tokens,
// and single-purpose confirm-email / reset-password tokens.
//
// Each token kind is signed with its own secret and carries an explicit kind
// discriminant in its claims. The kind is a closed set and is always supplied
// by the caller, both when signing and when verifying. Verification selects
// the secret from the expected kind rather than from anything inside the
// token, so a signature that is valid for one kind can never be accepted for
// another.
//
// All verification failures (bad signature, expired token, wrong audience,
// kind mismatch) collapse into the single ErrInvalidToken sentinel so callers
// cannot be used as a validation oracle.
//
// Example:
//
//	factory, err := authtoken.New(cfg)
//	if err != nil {
//		// handle error
//	}
//
//	access, err := factory.CreateAccessToken(userID, sessionID, nil)
//	claims, err := factory.Decode(access, authtoken.KindAccess)
package authtoken
