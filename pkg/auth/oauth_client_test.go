package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGithubFetchProfile(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, emailsBody string) *httptest.Server {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
			switch r.URL.Path {
			case "/user":
				_, _ = w.Write([]byte(`{"id":987654,"login":"dev"}`))
			case "/user/emails":
				_, _ = w.Write([]byte(emailsBody))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("prefers the primary verified email", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, `[
			{"email":"other@example.com","primary":false,"verified":true},
			{"email":"dev@example.com","primary":true,"verified":true}
		]`)
		client := &githubClient{
			httpClient: srv.Client(),
			userURL:    srv.URL + "/user",
			emailsURL:  srv.URL + "/user/emails",
		}

		orphan, err := client.FetchProfile(context.Background(), "gh-token")
		require.NoError(t, err)
		assert.Equal(t, ProviderGithub, orphan.Provider)
		assert.Equal(t, "987654", orphan.ProviderUserID)
		assert.Equal(t, "dev@example.com", orphan.Email)
		assert.True(t, orphan.EmailConfirmed)
		assert.JSONEq(t, `{"id":987654,"login":"dev"}`, string(orphan.ProviderData))
	})

	t.Run("falls back to any verified email", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, `[
			{"email":"primary@example.com","primary":true,"verified":false},
			{"email":"backup@example.com","primary":false,"verified":true}
		]`)
		client := &githubClient{
			httpClient: srv.Client(),
			userURL:    srv.URL + "/user",
			emailsURL:  srv.URL + "/user/emails",
		}

		orphan, err := client.FetchProfile(context.Background(), "gh-token")
		require.NoError(t, err)
		assert.Equal(t, "backup@example.com", orphan.Email)
	})

	t.Run("no verified email at all", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, `[{"email":"primary@example.com","primary":true,"verified":false}]`)
		client := &githubClient{
			httpClient: srv.Client(),
			userURL:    srv.URL + "/user",
			emailsURL:  srv.URL + "/user/emails",
		}

		_, err := client.FetchProfile(context.Background(), "gh-token")
		assert.ErrorIs(t, err, ErrNoProviderEmail)
	})
}

func TestDiscordFetchProfile(t *testing.T) {
	t.Parallel()

	t.Run("maps the discord profile", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer dc-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":"111222333","email":"gamer@example.com","verified":true}`))
		}))
		t.Cleanup(srv.Close)

		client := &discordClient{httpClient: srv.Client(), userURL: srv.URL}

		orphan, err := client.FetchProfile(context.Background(), "dc-token")
		require.NoError(t, err)
		assert.Equal(t, ProviderDiscord, orphan.Provider)
		assert.Equal(t, "111222333", orphan.ProviderUserID)
		assert.Equal(t, "gamer@example.com", orphan.Email)
		assert.True(t, orphan.EmailConfirmed)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id":"111222333","verified":false}`))
		}))
		t.Cleanup(srv.Close)

		client := &discordClient{httpClient: srv.Client(), userURL: srv.URL}

		_, err := client.FetchProfile(context.Background(), "dc-token")
		assert.ErrorIs(t, err, ErrNoProviderEmail)
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		client := &discordClient{httpClient: srv.Client(), userURL: srv.URL}

		_, err := client.FetchProfile(context.Background(), "dc-token")
		require.Error(t, err)
	})
}
