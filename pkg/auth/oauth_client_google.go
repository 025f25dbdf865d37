package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthConfig holds configuration for the Google OAuth client.
type GoogleOAuthConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email"`
}

type googleClient struct {
	conf        *oauth2.Config
	httpClient  *http.Client
	userInfoURL string
}

// NewGoogleClient creates the Google provider client.
func NewGoogleClient(cfg GoogleOAuthConfig) OAuthClient {
	return &googleClient{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		userInfoURL: googleUserInfoURL,
	}
}

func (c *googleClient) Provider() Provider {
	return ProviderGoogle
}

func (c *googleClient) AuthorizeURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (c *googleClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange google code: %w", err)
	}
	return tok.AccessToken, nil
}

// FetchProfile maps the Google userinfo response into an OrphanIdentity.
// The raw response body rides along as the identity's provider payload.
func (c *googleClient) FetchProfile(ctx context.Context, accessToken string) (OrphanIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return OrphanIdentity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OrphanIdentity{}, fmt.Errorf("fetch google profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return OrphanIdentity{}, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OrphanIdentity{}, err
	}

	var profile struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return OrphanIdentity{}, fmt.Errorf("decode google profile: %w", err)
	}
	if profile.Email == "" {
		return OrphanIdentity{}, ErrNoProviderEmail
	}

	return OrphanIdentity{
		Provider:       ProviderGoogle,
		ProviderUserID: profile.ID,
		Email:          profile.Email,
		EmailConfirmed: profile.VerifiedEmail,
		ProviderData:   body,
	}, nil
}

var _ OAuthClient = (*googleClient)(nil)
