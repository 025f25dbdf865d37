package authtoken

import "time"

// Config holds signing material and expiry policy for every token kind.
// Issuer and audience are shared across kinds; each kind keeps its own
// secret and TTL. Confirm-email and reset-password tokens share the default
// secret, which must still differ from the access and refresh secrets.
type Config struct {
	Issuer   string   `env:"JWT_ISSUER,required"`                    // Issuer is the "iss" claim stamped on every token.
	Audience []string `env:"JWT_AUDIENCE,required" envSeparator:","` // Audience is the accepted "aud" claim values.

	AccessSecret string        `env:"JWT_ACCESS_SECRET,required"`
	AccessTTL    time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`

	RefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"720h"`

	// DefaultSecret signs confirm-email and reset-password tokens.
	DefaultSecret    string        `env:"JWT_DEFAULT_SECRET,required"`
	ConfirmEmailTTL  time.Duration `env:"JWT_CONFIRM_EMAIL_TTL" envDefault:"24h"`
	ResetPasswordTTL time.Duration `env:"JWT_RESET_PASSWORD_TTL" envDefault:"1h"`
}
