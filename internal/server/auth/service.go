// Package auth sequences the login and registration flows:
// lookup, verify, then issue a session token.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/travlr/internal/crypto"
	"github.com/iudanet/travlr/internal/models"
	"github.com/iudanet/travlr/internal/server/apperr"
	"github.com/iudanet/travlr/internal/server/jwt"
	"github.com/iudanet/travlr/internal/server/storage"
	"github.com/iudanet/travlr/internal/validation"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID, email, name string) (string, time.Time, error)
}

// EventRecorder receives the outcome of every login/registration attempt.
type EventRecorder interface {
	AuthEvent(event, outcome string)
}

// Session is the result of a successful login or registration.
type Session struct {
	ExpiresAt time.Time
	User      *models.User
	Token     string
}

// RegisterInput is the raw registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Service implements the session layer.
type Service struct {
	users    storage.UserStorage
	tokens   TokenIssuer
	recorder EventRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the session service. recorder may be nil.
func NewService(logger *slog.Logger, users storage.UserStorage, tokens TokenIssuer, recorder EventRecorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an account and logs the new user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "auth.Register"

	session, err := s.register(ctx, op, in)
	s.recorder.AuthEvent("register", Outcome(err))
	return session, err
}

func (s *Service) register(ctx context.Context, op string, in RegisterInput) (*Session, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation(op, "all fields required")
	}

	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperr.Validation(op, err.Error())
	}

	name := validation.SanitizeName(in.Name)
	if err := validation.ValidateName(name); err != nil {
		return nil, apperr.Validation(op, err.Error())
	}

	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Validation(op, err.Error())
	}

	salt, hash, err := crypto.SetPassword(in.Password)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Salt:      salt,
		Hash:      hash,
		CreatedAt: s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "registration rejected: email taken", slog.String("email", email))
			return nil, apperr.Conflict(op, "email already registered")
		}
		s.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		return nil, apperr.Persistence(op, err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email))

	return s.issue(ctx, op, user)
}

// Login verifies credentials and issues a token.
// Pending -> Verifying -> {Issued, Rejected}.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "auth.Login"

	session, err := s.login(ctx, op, email, password)
	s.recorder.AuthEvent("login", Outcome(err))
	return session, err
}

func (s *Service) login(ctx context.Context, op, email, password string) (*Session, error) {
	// Pending
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(op, "all fields required")
	}

	// Verifying
	user, err := s.lookup(ctx, op, email)
	if err != nil {
		return nil, err
	}

	if !crypto.VerifyPassword(password, user.Salt, user.Hash) {
		s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
		return nil, apperr.Authentication(op, "invalid credentials")
	}

	// Issued
	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return s.issue(ctx, op, user)
}

// CurrentUser resolves the account behind validated claims.
func (s *Service) CurrentUser(ctx context.Context, claims *jwt.Claims) (*models.User, error) {
	const op = "auth.CurrentUser"

	if claims == nil || claims.Email == "" {
		return nil, apperr.Authentication(op, "missing session")
	}

	return s.lookup(ctx, op, claims.Email)
}

// lookup maps store errors onto the taxonomy.
func (s *Service) lookup(ctx context.Context, op, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "user not found", slog.String("email", email))
			return nil, apperr.NotFound(op, "user not found")
		}
		s.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		return nil, apperr.Persistence(op, err)
	}

	return user, nil
}

func (s *Service) issue(ctx context.Context, op string, user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		return nil, apperr.Persistence(op, err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Outcome names the result of an auth attempt for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperr.ErrValidation):
		return "validation"
	case errors.Is(err, apperr.ErrAuthentication):
		return "authentication"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	default:
		return "persistence"
	}
}

type nopRecorder struct{}

func (nopRecorder) AuthEvent(string, string) {}
