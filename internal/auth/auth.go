// Package auth implements the Identity Provider (§4.6, §2.8): password
// hashing, JWT access tokens, and rotating/revocable refresh tokens,
// generalized from uydev-fleetsustainability's auth.Service (stateless
// JWT-only) with a persisted UserStore backing the refresh token so it
// can be revoked independently of the short-lived access token.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Claims is the JWT access token payload.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// Service issues and validates access/refresh tokens for the HTTP layer.
type Service struct {
	users           ports.UserStore
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewService(users ports.UserStore, jwtSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		users:           users,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

// Register hashes password, creates the account, and returns it.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, apperr.New(apperr.Conflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, string(hash))
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// TokenPair is the access/refresh token bundle returned on login,
// register, and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Login verifies credentials and issues a new token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Unauthenticated, "invalid credentials", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Unauthenticated, "invalid credentials", ErrInvalidCredentials)
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh rotates refreshToken: the presented token is revoked and a
// fresh pair is issued, so a stolen refresh token is only useful once it
// races the legitimate client (§4.6 "blacklist-able").
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	tok, err := s.users.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Unauthenticated, "invalid refresh token", ErrInvalidToken)
	}
	if tok.Revoked || time.Now().After(tok.ExpiresAt) {
		return TokenPair{}, apperr.Wrap(apperr.Unauthenticated, "refresh token expired or revoked", ErrExpiredToken)
	}

	if err := s.users.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("auth: revoke used refresh token: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, tok.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: load user for refresh: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// CurrentUser loads the authenticated caller's profile for GET /auth/me
// (§3's original_source/backend/users/views.py MeView supplement).
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, apperr.Wrap(apperr.NotFound, "user not found", err)
	}
	return user, nil
}

// Logout revokes refreshToken so it can no longer be exchanged.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.users.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("auth: revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) issueTokenPair(ctx context.Context, user domain.User) (TokenPair, error) {
	access, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := generateOpaqueToken()
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: generate refresh token: %w", err)
	}

	if err := s.users.SaveRefreshToken(ctx, domain.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
		CreatedAt: time.Now(),
	}); err != nil {
		return TokenPair{}, fmt.Errorf("auth: persist refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func (s *Service) generateAccessToken(user domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken parses and verifies tokenString, returning the
// authenticated user's claims.
func (s *Service) ValidateAccessToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return Claims{UserID: userID, Email: email}, nil
}

func generateOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
