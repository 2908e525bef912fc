package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/travlr/internal/server/apperr"
	"github.com/iudanet/travlr/internal/server/auth"
	"github.com/iudanet/travlr/pkg/api"
)

// SessionService is the part of auth.Service the handlers need.
type SessionService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	sessions SessionService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, sessions SessionService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Register обрабатывает POST /api/register
// Регистрация нового пользователя, в ответе сразу токен сессии
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(r, w, "handlers.Register", &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendAppError(ctx, h.logger, w, err)
		return
	}

	session, err := h.sessions.Register(ctx, auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		sendAppError(ctx, h.logger, w, err)
		return
	}

	sendJSON(ctx, h.logger, w, api.TokenResponse{Token: session.Token}, http.StatusOK)
}

// Login обрабатывает POST /api/login
// Аутентификация пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(r, w, "handlers.Login", &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendAppError(ctx, h.logger, w, err)
		return
	}

	session, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		sendAppError(ctx, h.logger, w, err)
		return
	}

	sendJSON(ctx, h.logger, w, api.TokenResponse{Token: session.Token}, http.StatusOK)
}

// Me обрабатывает GET /api/me (защищенный маршрут)
// Возвращает claims текущей сессии
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		sendAppError(ctx, h.logger, w, apperr.Authentication("handlers.Me", "missing session"))
		return
	}

	resp := api.ClaimsResponse{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}

	sendJSON(ctx, h.logger, w, resp, http.StatusOK)
}
