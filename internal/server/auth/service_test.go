package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/travlr/internal/crypto"
	"github.com/iudanet/travlr/internal/models"
	"github.com/iudanet/travlr/internal/server/apperr"
	"github.com/iudanet/travlr/internal/server/jwt"
	"github.com/iudanet/travlr/internal/server/storage"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // email -> User
	createError error
	getError    error
	mu          sync.Mutex
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

type recordedEvent struct {
	event   string
	outcome string
}

type mockRecorder struct {
	events []recordedEvent
}

func (r *mockRecorder) AuthEvent(event, outcome string) {
	r.events = append(r.events, recordedEvent{event: event, outcome: outcome})
}

type failingIssuer struct{}

func (failingIssuer) Issue(string, string, string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("signer unavailable")
}

func setupService(t *testing.T) (*Service, *mockUserStorage, *jwt.Service, *mockRecorder) {
	t.Helper()

	tokens, err := jwt.NewService("test-secret", jwt.DefaultTTL)
	require.NoError(t, err)

	users := newMockUserStorage()
	recorder := &mockRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(logger, users, tokens, recorder), users, tokens, recorder
}

func TestService_Register_Success(t *testing.T) {
	svc, users, tokens, recorder := setupService(t)

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  <b>Alice</b> ",
		Email:    "  Alice@Example.COM ",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)

	stored, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.NotEmpty(t, stored.ID)
	assert.True(t, crypto.VerifyPassword("s3cret-pass", stored.Salt, stored.Hash))

	// регистрация сразу логинит пользователя
	claims, err := tokens.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)

	assert.Equal(t, []recordedEvent{{"register", "success"}}, recorder.events)
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  RegisterInput
		errMsg string
	}{
		{
			name:   "missing name",
			input:  RegisterInput{Email: "a@example.com", Password: "p"},
			errMsg: "all fields required",
		},
		{
			name:   "missing email",
			input:  RegisterInput{Name: "A", Password: "p"},
			errMsg: "all fields required",
		},
		{
			name:   "missing password",
			input:  RegisterInput{Name: "A", Email: "a@example.com"},
			errMsg: "all fields required",
		},
		{
			name:   "malformed email",
			input:  RegisterInput{Name: "A", Email: "not-an-email", Password: "p"},
			errMsg: "not a valid address",
		},
		{
			name:   "name is only markup",
			input:  RegisterInput{Name: "<script>x</script>", Email: "a@example.com", Password: "p"},
			errMsg: "name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, recorder := setupService(t)

			session, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, session)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, apperr.Message(err), tt.errMsg)
			assert.Empty(t, users.users, "store must not be touched")
			assert.Equal(t, []recordedEvent{{"register", "validation"}}, recorder.events)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "one"})
	require.NoError(t, err)

	session, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ALICE@example.com", Password: "two"})
	require.Error(t, err)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestService_Register_StoreFailure(t *testing.T) {
	svc, users, _, recorder := setupService(t)
	users.createError = errors.New("disk full")

	session, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "p"})
	require.Error(t, err)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, "internal server error", apperr.Message(err))
	assert.Equal(t, []recordedEvent{{"register", "persistence"}}, recorder.events)
}

func TestService_Login(t *testing.T) {
	svc, users, tokens, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	tests := []struct {
		wantKind error
		name     string
		email    string
		password string
		outcome  string
	}{
		{name: "success", email: "alice@example.com", password: "s3cret-pass", outcome: "success"},
		{name: "email is normalized", email: " ALICE@example.com", password: "s3cret-pass", outcome: "success"},
		{name: "missing email", email: "", password: "x", wantKind: apperr.ErrValidation, outcome: "validation"},
		{name: "blank email", email: "  \t ", password: "x", wantKind: apperr.ErrValidation, outcome: "validation"},
		{name: "missing password", email: "alice@example.com", password: "", wantKind: apperr.ErrValidation, outcome: "validation"},
		{name: "unknown user", email: "bob@example.com", password: "s3cret-pass", wantKind: apperr.ErrNotFound, outcome: "not_found"},
		{name: "wrong password", email: "alice@example.com", password: "wrong", wantKind: apperr.ErrAuthentication, outcome: "authentication"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, tt.email, tt.password)
			assert.Equal(t, tt.outcome, Outcome(err))

			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
				assert.Nil(t, session)
				return
			}

			require.NoError(t, err)
			claims, err := tokens.Validate(session.Token)
			require.NoError(t, err)
			stored := users.users["alice@example.com"]
			assert.Equal(t, stored.ID, claims.UserID)
			assert.Equal(t, stored.Email, claims.Email)
		})
	}
}

func TestService_Login_StoreFailure(t *testing.T) {
	svc, users, _, _ := setupService(t)
	users.getError = errors.New("connection reset")

	session, err := svc.Login(context.Background(), "alice@example.com", "x")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestService_IssueFailure(t *testing.T) {
	users := newMockUserStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, users, failingIssuer{}, nil)

	session, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "p"})
	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestService_CurrentUser(t *testing.T) {
	svc, _, tokens, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "p"})
	require.NoError(t, err)

	claims, err := tokens.Validate(session.Token)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)

	_, err = svc.CurrentUser(ctx, &jwt.Claims{Email: "gone@example.com"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.CurrentUser(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}
