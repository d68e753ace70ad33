package handlers

import (
	"net/http"

	"hos-trip-service/internal/api/dto"
	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/auth"
	"hos-trip-service/internal/middleware"
)

// AuthHandler wraps internal/auth.Service for the §4.6 auth routes
// (register, login, refresh, logout, me).
type AuthHandler struct {
	Service *auth.Service
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body dto.RegisterRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(ctx, w, r, apperr.Wrap(apperr.Validation, "malformed request body", err))
		return
	}
	if body.Email == "" || body.Password == "" {
		writeAppError(ctx, w, r, apperr.New(apperr.Validation, "email and password are required"))
		return
	}

	if _, err := h.Service.Register(ctx, body.Email, body.Password); err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	pair, err := h.Service.Login(ctx, body.Email, body.Password)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toTokenPairResponse(pair))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body dto.LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(ctx, w, r, apperr.Wrap(apperr.Validation, "malformed request body", err))
		return
	}

	pair, err := h.Service.Login(ctx, body.Email, body.Password)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTokenPairResponse(pair))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body dto.RefreshRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(ctx, w, r, apperr.Wrap(apperr.Validation, "malformed request body", err))
		return
	}

	pair, err := h.Service.Refresh(ctx, body.RefreshToken)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTokenPairResponse(pair))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body dto.LogoutRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(ctx, w, r, apperr.Wrap(apperr.Validation, "malformed request body", err))
		return
	}

	if err := h.Service.Logout(ctx, body.RefreshToken); err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me: the authenticated caller's own profile
// (§3's original_source MeView supplement).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		writeAppError(ctx, w, r, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	user, err := h.Service.CurrentUser(ctx, userID)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func toTokenPairResponse(p auth.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    p.ExpiresAt,
	}
}
