package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/travlr/internal/server/apperr"
	"github.com/iudanet/travlr/pkg/api"
)

// maxBodySize ограничивает размер тела запроса
const maxBodySize = 1 << 20

// WriteJSON отправляет JSON ответ
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError отправляет JSON ответ с ошибкой
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// sendJSON отправляет JSON ответ и логирует ошибку кодирования
func sendJSON(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	if err := WriteJSON(w, statusCode, data); err != nil {
		logger.ErrorContext(ctx, "failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(ctx, logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

// sendAppError переводит ошибку из apperr в HTTP ответ.
// Причина 5xx ошибок уходит только в лог.
func sendAppError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
	}
	sendError(ctx, logger, w, apperr.Message(err), status)
}

// decodeJSON читает тело запроса в dst. Пустое или битое тело дает ErrValidation.
func decodeJSON(r *http.Request, w http.ResponseWriter, op string, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation(op, "request body is empty")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation(op, fmt.Sprintf("request body too large (max %d bytes)", tooLarge.Limit))
		}
		return apperr.Validation(op, "invalid request body")
	}
	return nil
}
