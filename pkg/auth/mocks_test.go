package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore is a mock implementation of UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) Insert(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (bool, error) {
	args := m.Called(ctx, id, passwordHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ConfirmEmail(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

// MockIdentityStore is a mock implementation of IdentityStore.
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) GetByProviderIdentity(ctx context.Context, provider Provider, providerUserID string) (*Identity, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

func (m *MockIdentityStore) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider Provider) (*Identity, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

func (m *MockIdentityStore) Insert(ctx context.Context, identity *Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityStore) Upsert(ctx context.Context, identity *Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Insert(ctx context.Context, session *Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockTokenCache is a mock implementation of TokenCache.
type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockTokenCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenCache) GetAndDelete(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCache) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockMailer is a mock implementation of Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmationEmail(ctx context.Context, recipient, link string) error {
	args := m.Called(ctx, recipient, link)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, recipient, link string) error {
	args := m.Called(ctx, recipient, link)
	return args.Error(0)
}

// MockOAuthClient is a mock implementation of OAuthClient.
type MockOAuthClient struct {
	mock.Mock
}

func (m *MockOAuthClient) Provider() Provider {
	args := m.Called()
	return args.Get(0).(Provider)
}

func (m *MockOAuthClient) AuthorizeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthClient) FetchProfile(ctx context.Context, accessToken string) (OrphanIdentity, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(OrphanIdentity), args.Error(1)
}
