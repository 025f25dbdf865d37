package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const discordUserURL = "https://discordapp.com/api/users/@me"

// DiscordOAuthConfig holds configuration for the Discord OAuth client.
type DiscordOAuthConfig struct {
	ClientID     string   `env:"DISCORD_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"DISCORD_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"DISCORD_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"DISCORD_OAUTH_SCOPES" envSeparator:"," envDefault:"identify,email"`
}

type discordClient struct {
	conf       *oauth2.Config
	httpClient *http.Client
	userURL    string
}

// NewDiscordClient creates the Discord provider client.
func NewDiscordClient(cfg DiscordOAuthConfig) OAuthClient {
	return &discordClient{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoints.Discord,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userURL:    discordUserURL,
	}
}

func (c *discordClient) Provider() Provider {
	return ProviderDiscord
}

func (c *discordClient) AuthorizeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

func (c *discordClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange discord code: %w", err)
	}
	return tok.AccessToken, nil
}

func (c *discordClient) FetchProfile(ctx context.Context, accessToken string) (OrphanIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return OrphanIdentity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OrphanIdentity{}, fmt.Errorf("fetch discord user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return OrphanIdentity{}, fmt.Errorf("discord api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OrphanIdentity{}, fmt.Errorf("read discord user: %w", err)
	}

	var user struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return OrphanIdentity{}, fmt.Errorf("decode discord user: %w", err)
	}
	if user.Email == "" {
		return OrphanIdentity{}, ErrNoProviderEmail
	}

	return OrphanIdentity{
		Provider:       ProviderDiscord,
		ProviderUserID: user.ID,
		Email:          user.Email,
		EmailConfirmed: user.Verified,
		ProviderData:   body,
	}, nil
}

var _ OAuthClient = (*discordClient)(nil)
