package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
)

// PostgresUserStore implements the UserStore port over pgx/v5, the
// account/refresh-token counterpart to PostgresTripStore (§4.6, §2.8).
type PostgresUserStore struct{ DB *sql.DB }

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{DB: db}
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, email, passwordHash string) (_ domain.User, err error) {
	defer obs.Time(ctx, "postgres.user.CreateUser")(&err)

	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO users (id, email, password_hash, created_at) VALUES ($1,$2,$3,$4)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("user store: insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) GetUserByEmail(ctx context.Context, email string) (_ domain.User, err error) {
	defer obs.Time(ctx, "postgres.user.GetUserByEmail")(&err)
	return s.scanUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (s *PostgresUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (_ domain.User, err error) {
	defer obs.Time(ctx, "postgres.user.GetUserByID")(&err)
	return s.scanUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) scanUser(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user store: scan user: %w", err)
	}
	return u, nil
}

func (s *PostgresUserStore) SaveRefreshToken(ctx context.Context, tok domain.RefreshToken) (err error) {
	defer obs.Time(ctx, "postgres.user.SaveRefreshToken")(&err)

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at) VALUES ($1,$2,$3,$4,$5)
	`, tok.Token, tok.UserID, tok.ExpiresAt, tok.Revoked, tok.CreatedAt)
	if err != nil {
		return fmt.Errorf("user store: insert refresh token: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) GetRefreshToken(ctx context.Context, token string) (_ domain.RefreshToken, err error) {
	defer obs.Time(ctx, "postgres.user.GetRefreshToken")(&err)

	var t domain.RefreshToken
	err = s.DB.QueryRowContext(ctx, `
	SELECT token, user_id, expires_at, revoked, created_at FROM refresh_tokens WHERE token = $1
	`, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RefreshToken{}, apperr.New(apperr.NotFound, "refresh token not found")
	}
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("user store: scan refresh token: %w", err)
	}
	return t, nil
}

func (s *PostgresUserStore) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	defer obs.Time(ctx, "postgres.user.RevokeRefreshToken")(&err)

	res, err := s.DB.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = true WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("user store: revoke refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user store: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, "refresh token not found")
	}
	return nil
}
