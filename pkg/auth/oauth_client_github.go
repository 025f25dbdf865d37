package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubOAuthConfig holds configuration for the GitHub OAuth client.
type GitHubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"user:email"`
}

type githubClient struct {
	conf       *oauth2.Config
	httpClient *http.Client
	userURL    string
	emailsURL  string
}

// NewGitHubClient creates the GitHub provider client.
func NewGitHubClient(cfg GitHubOAuthConfig) OAuthClient {
	return &githubClient{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userURL:    githubUserURL,
		emailsURL:  githubEmailsURL,
	}
}

func (c *githubClient) Provider() Provider {
	return ProviderGithub
}

func (c *githubClient) AuthorizeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

func (c *githubClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange github code: %w", err)
	}
	return tok.AccessToken, nil
}

// FetchProfile resolves the GitHub account and its verified email. GitHub
// reports verification only through the /user/emails endpoint, so the
// profile is assembled from two calls: the primary verified address wins,
// then any verified address.
func (c *githubClient) FetchProfile(ctx context.Context, accessToken string) (OrphanIdentity, error) {
	body, err := c.get(ctx, c.userURL, accessToken)
	if err != nil {
		return OrphanIdentity{}, fmt.Errorf("fetch github user: %w", err)
	}

	var user struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return OrphanIdentity{}, fmt.Errorf("decode github user: %w", err)
	}

	emailsBody, err := c.get(ctx, c.emailsURL, accessToken)
	if err != nil {
		return OrphanIdentity{}, fmt.Errorf("fetch github emails: %w", err)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(emailsBody, &emails); err != nil {
		return OrphanIdentity{}, fmt.Errorf("decode github emails: %w", err)
	}

	var email string
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		for _, e := range emails {
			if e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return OrphanIdentity{}, ErrNoProviderEmail
	}

	return OrphanIdentity{
		Provider:       ProviderGithub,
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Email:          email,
		EmailConfirmed: true,
		ProviderData:   body,
	}, nil
}

func (c *githubClient) get(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

var _ OAuthClient = (*githubClient)(nil)
