package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the session registry.
type Repository interface {
	CreateSession(ctx context.Context, id, principalID, role string, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateSession persists a new login session for auditing. A repository
// without a pool is a no-op so the console still runs without Postgres.
func (r *PGRepository) CreateSession(ctx context.Context, id, principalID, role string, expiresAt time.Time, ip, ua string) error {
	if r.pool == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO console_sessions (id, principal_id, role, created_at, expires_at, ip, ua)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, principalID, role,
		pgtype.Timestamptz{Time: now, Valid: true},
		pgtype.Timestamptz{Time: expiresAt.UTC(), Valid: true},
		pgtype.Text{String: ip, Valid: ip != ""},
		pgtype.Text{String: ua, Valid: ua != ""},
	)
	return err
}

// DeleteSession removes a session record.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	if r.pool == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM console_sessions WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
