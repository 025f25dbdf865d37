package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// UserStore implements auth.UserStore on top of the auth.users table.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, email, password_hash, email_confirmed_at, phone, phone_confirmed_at, is_admin, created_at, updated_at`

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM auth.users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM auth.users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) Insert(ctx context.Context, user *auth.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth.users (id, email, password_hash, email_confirmed_at, phone, phone_confirmed_at, is_admin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Email, user.PasswordHash, user.EmailConfirmedAt,
		user.Phone, user.PhoneConfirmedAt, user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	return translateError(err)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE auth.users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// ConfirmEmail stamps the confirmation time only when unset, so a replayed
// confirmation link reports false instead of moving the timestamp.
func (s *UserStore) ConfirmEmail(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE auth.users SET email_confirmed_at = now(), updated_at = now()
		 WHERE id = $1 AND email_confirmed_at IS NULL`, id)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *UserStore) List(ctx context.Context) ([]auth.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM auth.users ORDER BY created_at`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, translateError(rows.Err())
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var user auth.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailConfirmedAt,
		&user.Phone, &user.PhoneConfirmedAt, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// translateError maps driver errors onto the auth package's storage
// sentinels. Errors outside the taxonomy pass through untouched.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsNotFoundError(err):
		return auth.ErrNotFound
	case IsDuplicateKeyError(err):
		return auth.ErrConflict
	default:
		return err
	}
}

var _ auth.UserStore = (*UserStore)(nil)
