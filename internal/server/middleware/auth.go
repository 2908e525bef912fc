package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/travlr/internal/server/handlers"
	"github.com/iudanet/travlr/internal/server/jwt"
)

// TokenValidator проверяет токен сессии и возвращает его claims
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для защищенных маршрутов.
// Без валидного "Authorization: Bearer <token>" отвечает 401 и не вызывает next.
func AuthMiddleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.WarnContext(ctx, "missing or malformed Authorization header",
					slog.String("path", r.URL.Path))
				_ = handlers.WriteError(w, http.StatusUnauthorized, "missing or malformed token")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				reason := "invalid token"
				if jwt.IsExpired(err) {
					reason = "token expired"
				}
				logger.WarnContext(ctx, "rejected token",
					slog.String("path", r.URL.Path),
					slog.String("reason", reason))
				_ = handlers.WriteError(w, http.StatusUnauthorized, reason)
				return
			}

			logger.DebugContext(ctx, "user authenticated", slog.String("user_id", claims.UserID))

			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(ctx, claims)))
		})
	}
}

// bearerToken извлекает токен из заголовка формата "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
