// Package auth is the client side of the session flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/travlr/internal/client/storage"
	"github.com/iudanet/travlr/internal/validation"
	pkgapi "github.com/iudanet/travlr/pkg/api"
)

// ErrNotAuthenticated means there is no valid local session.
var ErrNotAuthenticated = errors.New("not authenticated, run 'travlr login' first")

// API is the part of the HTTP client used by the auth service
type API interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.TokenResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
	Me(ctx context.Context, token string) (*pkgapi.ClaimsResponse, error)
}

var _ Service = (*AuthService)(nil)

// AuthService implements Service
type AuthService struct {
	api      API
	sessions storage.SessionStorage
	logger   *slog.Logger
	now      func() time.Time
	server   string
}

// NewService создает новый сервис авторизации. server сохраняется в сессии для status.
func NewService(api API, sessions storage.SessionStorage, logger *slog.Logger, server string) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		server:   server,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*storage.Session, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.api.Register(ctx, pkgapi.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return s.store(ctx, resp.Token)
}

// Login выполняет аутентификацию пользователя
func (s *AuthService) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	resp, err := s.api.Login(ctx, pkgapi.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return s.store(ctx, resp.Token)
}

// store читает claims через /api/me и сохраняет сессию
func (s *AuthService) store(ctx context.Context, token string) (*storage.Session, error) {
	claims, err := s.api.Me(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read session claims: %w", err)
	}

	session := &storage.Session{
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
		UserID:    claims.ID,
		Email:     claims.Email,
		Name:      claims.Name,
		Token:     token,
		Server:    s.server,
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.DebugContext(ctx, "session saved", slog.String("user_id", session.UserID))
	return session, nil
}

// Logout удаляет локальную сессию
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session возвращает сохраненную сессию
func (s *AuthService) Session(ctx context.Context) (*storage.Session, error) {
	return s.sessions.GetSession(ctx)
}

// Token возвращает действующий токен
func (s *AuthService) Token(ctx context.Context) (string, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", err
	}

	if session.Expired(s.now()) {
		return "", fmt.Errorf("session expired at %s: %w", session.ExpiresAt.Format(time.RFC3339), ErrNotAuthenticated)
	}

	return session.Token, nil
}
