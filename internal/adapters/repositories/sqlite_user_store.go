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
)

// SQLiteUserStore is the local/dev and integration-test UserStore,
// mirroring PostgresUserStore with SQLite placeholder syntax and
// string-encoded UUIDs (generalizes sqlite_init.go + SqlitePackageRepository
// pairing, same as SQLiteTripStore).
type SQLiteUserStore struct{ DB *sql.DB }

func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{DB: db}
}

func (s *SQLiteUserStore) CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO users (id, email, password_hash, created_at) VALUES (?,?,?,?)
	`, user.ID.String(), user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("user store: insert user: %w", err)
	}
	return user, nil
}

func (s *SQLiteUserStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.scanUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (s *SQLiteUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.scanUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id.String())
}

func (s *SQLiteUserStore) scanUser(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	var id string
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&id, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user store: scan user: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("user store: parse user id: %w", err)
	}
	u.ID = parsedID
	return u, nil
}

func (s *SQLiteUserStore) SaveRefreshToken(ctx context.Context, tok domain.RefreshToken) error {
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at) VALUES (?,?,?,?,?)
	`, tok.Token, tok.UserID.String(), tok.ExpiresAt, tok.Revoked, tok.CreatedAt)
	if err != nil {
		return fmt.Errorf("user store: insert refresh token: %w", err)
	}
	return nil
}

func (s *SQLiteUserStore) GetRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	var userID string
	err := s.DB.QueryRowContext(ctx, `
	SELECT token, user_id, expires_at, revoked, created_at FROM refresh_tokens WHERE token = ?
	`, token).Scan(&t.Token, &userID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RefreshToken{}, apperr.New(apperr.NotFound, "refresh token not found")
	}
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("user store: scan refresh token: %w", err)
	}

	parsedUser, err := uuid.Parse(userID)
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("user store: parse refresh token user id: %w", err)
	}
	t.UserID = parsedUser
	return t, nil
}

func (s *SQLiteUserStore) RevokeRefreshToken(ctx context.Context, token string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = 1 WHERE token = ?`, token)
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
