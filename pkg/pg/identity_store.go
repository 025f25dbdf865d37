package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// IdentityStore implements auth.IdentityStore on top of the auth.identities
// table. The table's primary key is (provider, provider_user_id).
type IdentityStore struct {
	pool *pgxpool.Pool
}

func NewIdentityStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

const identityColumns = `user_id, provider, provider_user_id, email, email_confirmed, provider_data, created_at, updated_at`

func (s *IdentityStore) GetByProviderIdentity(ctx context.Context, provider auth.Provider, providerUserID string) (*auth.Identity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM auth.identities WHERE provider = $1 AND provider_user_id = $2`,
		string(provider), providerUserID)
	return scanIdentity(row)
}

func (s *IdentityStore) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider auth.Provider) (*auth.Identity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM auth.identities WHERE user_id = $1 AND provider = $2`,
		userID, string(provider))
	return scanIdentity(row)
}

func (s *IdentityStore) Insert(ctx context.Context, identity *auth.Identity) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth.identities (user_id, provider, provider_user_id, email, email_confirmed, provider_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		identity.UserID, string(identity.Provider), identity.ProviderUserID,
		identity.Email, identity.EmailConfirmed, identity.ProviderData,
		identity.CreatedAt, identity.UpdatedAt)
	return translateError(err)
}

// Upsert refreshes the profile data of a re-authenticated identity in place.
// user_id is deliberately not in the update list: once bound to a user, the
// provider pair never migrates to another account.
func (s *IdentityStore) Upsert(ctx context.Context, identity *auth.Identity) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth.identities (user_id, provider, provider_user_id, email, email_confirmed, provider_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (provider, provider_user_id) DO UPDATE
		 SET email = EXCLUDED.email,
		     email_confirmed = EXCLUDED.email_confirmed,
		     provider_data = EXCLUDED.provider_data,
		     updated_at = EXCLUDED.updated_at`,
		identity.UserID, string(identity.Provider), identity.ProviderUserID,
		identity.Email, identity.EmailConfirmed, identity.ProviderData,
		identity.CreatedAt, identity.UpdatedAt)
	return translateError(err)
}

func scanIdentity(row pgx.Row) (*auth.Identity, error) {
	var identity auth.Identity
	var provider string
	err := row.Scan(
		&identity.UserID, &provider, &identity.ProviderUserID,
		&identity.Email, &identity.EmailConfirmed, &identity.ProviderData,
		&identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	identity.Provider = auth.Provider(provider)
	return &identity, nil
}

var _ auth.IdentityStore = (*IdentityStore)(nil)
