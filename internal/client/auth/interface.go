package auth

import (
	"context"

	"github.com/iudanet/travlr/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service управляет сессией CLI: register/login через API и токен в локальном хранилище
type Service interface {
	// Register регистрирует пользователя и сохраняет сессию
	Register(ctx context.Context, name, email, password string) (*storage.Session, error)

	// Login выполняет аутентификацию и сохраняет сессию
	Login(ctx context.Context, email, password string) (*storage.Session, error)

	// Logout удаляет локальную сессию. Сервер токены не хранит, уведомлять его не нужно.
	Logout(ctx context.Context) error

	// Session возвращает сохраненную сессию (в том числе истекшую)
	// Returns storage.ErrSessionNotFound if nobody is logged in
	Session(ctx context.Context) (*storage.Session, error)

	// Token возвращает действующий токен или ErrNotAuthenticated
	Token(ctx context.Context) (string, error)
}
