package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// SessionStore implements auth.SessionStore on top of the auth.sessions
// table. Sessions are an insert-only audit trail; liveness is tracked in
// the token cache, not here.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Insert(ctx context.Context, session *auth.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth.sessions (id, user_id, user_agent, ip, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.UserAgent, session.IP, session.CreatedAt)
	return translateError(err)
}

var _ auth.SessionStore = (*SessionStore)(nil)
