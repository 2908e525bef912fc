package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/travlr/internal/models"
	"github.com/iudanet/travlr/internal/server/apperr"
	"github.com/iudanet/travlr/internal/server/jwt"
	"github.com/iudanet/travlr/internal/server/storage"
	"github.com/iudanet/travlr/internal/validation"
	"github.com/iudanet/travlr/pkg/api"
)

// UserResolver находит аккаунт по claims проверенного токена
type UserResolver interface {
	CurrentUser(ctx context.Context, claims *jwt.Claims) (*models.User, error)
}

// TripHandler обрабатывает запросы к каталогу туров
type TripHandler struct {
	logger *slog.Logger
	trips  storage.TripStorage
	users  UserResolver
	now    func() time.Time
}

// NewTripHandler создает новый handler каталога
func NewTripHandler(logger *slog.Logger, trips storage.TripStorage, users UserResolver) *TripHandler {
	return &TripHandler{
		logger: logger,
		trips:  trips,
		users:  users,
		now:    time.Now,
	}
}

// List обрабатывает GET /api/trips
// Пустой каталог отдается как [] со статусом 200
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trips, err := h.trips.ListTrips(ctx)
	if err != nil {
		sendAppError(ctx, h.logger, w, apperr.Persistence("handlers.ListTrips", err))
		return
	}

	resp := make([]api.Trip, 0, len(trips))
	for _, trip := range trips {
		resp = append(resp, toAPITrip(trip))
	}

	sendJSON(ctx, h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/trips/{tripCode}
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetTrip"
	ctx := r.Context()

	code := r.PathValue("tripCode")
	trip, err := h.trips.GetTripByCode(ctx, code)
	if err != nil {
		sendAppError(ctx, h.logger, w, tripError(op, err))
		return
	}

	sendJSON(ctx, h.logger, w, toAPITrip(trip), http.StatusOK)
}

// Add обрабатывает POST /api/trips (защищенный маршрут)
func (h *TripHandler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.AddTrip"
	ctx := r.Context()

	user, err := h.currentUser(ctx, op)
	if err != nil {
		sendAppError(ctx, h.logger, w, err)
		return
	}

	var req api.Trip
	if err := decodeJSON(r, w, op, &req); err != nil {
		sendAppError(ctx, h.logger, w, err)
		return
	}

	now := h.now().UTC()
	trip := fromAPITrip(&req)
	trip.ID = uuid.New().String()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	if err := validation.ValidateTrip(trip); err != nil {
		sendAppError(ctx, h.logger, w, apperr.Validation(op, err.Error()))
		return
	}

	if err := h.trips.CreateTrip(ctx, trip); err != nil {
		sendAppError(ctx, h.logger, w, tripError(op, err))
		return
	}

	h.logger.InfoContext(ctx, "trip created",
		slog.String("code", trip.Code),
		slog.String("user_id", user.ID))

	sendJSON(ctx, h.logger, w, toAPITrip(trip), http.StatusCreated)
}

// Update обрабатывает PUT /api/trips/{tripCode} (защищенный маршрут)
// Код из пути главнее кода в теле запроса
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateTrip"
	ctx := r.Context()

	user, err := h.currentUser(ctx, op)
	if err != nil {
		sendAppError(ctx, h.logger, w, err)
		return
	}

	var req api.Trip
	if err := decodeJSON(r, w, op, &req); err != nil {
		sendAppError(ctx, h.logger, w, err)
		return
	}

	code := r.PathValue("tripCode")
	existing, err := h.trips.GetTripByCode(ctx, code)
	if err != nil {
		sendAppError(ctx, h.logger, w, tripError(op, err))
		return
	}

	trip := fromAPITrip(&req)
	trip.Code = existing.Code
	trip.ID = existing.ID
	trip.CreatedAt = existing.CreatedAt
	trip.UpdatedAt = h.now().UTC()

	if err := validation.ValidateTrip(trip); err != nil {
		sendAppError(ctx, h.logger, w, apperr.Validation(op, err.Error()))
		return
	}

	if err := h.trips.UpdateTrip(ctx, trip); err != nil {
		sendAppError(ctx, h.logger, w, tripError(op, err))
		return
	}

	h.logger.InfoContext(ctx, "trip updated",
		slog.String("code", trip.Code),
		slog.String("user_id", user.ID))

	sendJSON(ctx, h.logger, w, toAPITrip(trip), http.StatusOK)
}

func (h *TripHandler) currentUser(ctx context.Context, op string) (*models.User, error) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return nil, apperr.Authentication(op, "missing session")
	}
	return h.users.CurrentUser(ctx, claims)
}

// tripError maps storage errors onto the taxonomy.
func tripError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrTripNotFound):
		return apperr.NotFound(op, "trip not found")
	case errors.Is(err, storage.ErrTripAlreadyExists):
		return apperr.Conflict(op, "trip code already exists")
	default:
		return apperr.Persistence(op, err)
	}
}

func toAPITrip(t *models.Trip) api.Trip {
	return api.Trip{
		Code:        t.Code,
		Name:        t.Name,
		Length:      t.Length,
		Start:       t.Start,
		Resort:      t.Resort,
		PerPerson:   t.PerPerson,
		Image:       t.Image,
		Description: t.Description,
	}
}

func fromAPITrip(t *api.Trip) *models.Trip {
	return &models.Trip{
		Code:        strings.TrimSpace(t.Code),
		Name:        strings.TrimSpace(t.Name),
		Length:      strings.TrimSpace(t.Length),
		Start:       t.Start.UTC(),
		Resort:      strings.TrimSpace(t.Resort),
		PerPerson:   strings.TrimSpace(t.PerPerson),
		Image:       strings.TrimSpace(t.Image),
		Description: t.Description,
	}
}
