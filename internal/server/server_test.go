package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/travlr/internal/server/config"
	"github.com/iudanet/travlr/internal/server/jwt"
	"github.com/iudanet/travlr/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, storageKind string) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = "integration-secret"
	cfg.Storage = storageKind
	cfg.DatabasePath = filepath.Join(t.TempDir(), "travlr.db")
	cfg.Address = "127.0.0.1:0"
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	srv, err := New(cfg, testLogger(), store, "test")
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type apiClient struct {
	t    *testing.T
	base string
}

func (c *apiClient) do(method, path, token string, body any) (int, []byte) {
	c.t.Helper()
	return c.doWithHeaders(method, path, token, body, nil)
}

func (c *apiClient) doWithHeaders(method, path, token string, body any, headers map[string]string) (int, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c *apiClient) token(status int, data []byte) string {
	c.t.Helper()
	require.Equal(c.t, http.StatusOK, status, string(data))

	var resp api.TokenResponse
	require.NoError(c.t, json.Unmarshal(data, &resp))
	require.NotEmpty(c.t, resp.Token)
	return resp.Token
}

func sampleTrip(code string) api.Trip {
	return api.Trip{
		Code:        code,
		Name:        "Gale Reef",
		Length:      "4 nights / 5 days",
		Start:       time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC),
		Resort:      "Emerald Bay, 3 stars",
		PerPerson:   "799.00",
		Image:       "reef1.jpg",
		Description: "Sed et augue lorem.",
	}
}

func TestServer_AuthFlow(t *testing.T) {
	for _, kind := range []string{config.StorageBolt, config.StorageSQLite} {
		t.Run(kind, func(t *testing.T) {
			ts := startServer(t, testConfig(t, kind))
			c := &apiClient{t: t, base: ts.URL}

			// пустой каталог
			status, body := c.do(http.MethodGet, "/api/trips", "", nil)
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `[]`, string(body))

			// регистрация сразу выдает токен
			regToken := c.token(c.do(http.MethodPost, "/api/register", "", api.RegisterRequest{
				Name:     "Alice",
				Email:    "Alice@Example.com",
				Password: "s3cret-pass",
			}))

			status, body = c.do(http.MethodGet, "/api/me", regToken, nil)
			require.Equal(t, http.StatusOK, status)
			var me api.ClaimsResponse
			require.NoError(t, json.Unmarshal(body, &me))
			assert.Equal(t, "alice@example.com", me.Email)
			assert.Equal(t, "Alice", me.Name)
			assert.NotEmpty(t, me.ID)
			assert.InDelta(t, time.Now().Add(jwt.DefaultTTL).Unix(), me.ExpiresAt, 60)

			// повторная регистрация
			status, body = c.do(http.MethodPost, "/api/register", "", api.RegisterRequest{
				Name:     "Other",
				Email:    "alice@example.com",
				Password: "x",
			})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotContains(t, string(body), "token")

			// логин
			token := c.token(c.do(http.MethodPost, "/api/login", "", api.LoginRequest{
				Email:    "alice@example.com",
				Password: "s3cret-pass",
			}))

			status, _ = c.do(http.MethodPost, "/api/login", "", api.LoginRequest{Email: "alice@example.com", Password: "wrong"})
			assert.Equal(t, http.StatusUnauthorized, status)

			status, _ = c.do(http.MethodPost, "/api/login", "", api.LoginRequest{Email: "bob@example.com", Password: "x"})
			assert.Equal(t, http.StatusNotFound, status)

			status, _ = c.do(http.MethodPost, "/api/login", "", api.LoginRequest{Email: "alice@example.com"})
			assert.Equal(t, http.StatusBadRequest, status)

			// защищенные маршруты
			status, _ = c.do(http.MethodPost, "/api/trips", "", sampleTrip("GALR210214"))
			assert.Equal(t, http.StatusUnauthorized, status)

			status, _ = c.do(http.MethodPost, "/api/trips", token+"tampered", sampleTrip("GALR210214"))
			assert.Equal(t, http.StatusUnauthorized, status)

			status, _ = c.do(http.MethodGet, "/api/trips/GALR210214", "", nil)
			assert.Equal(t, http.StatusNotFound, status, "rejected request must not create the trip")

			status, body = c.do(http.MethodPost, "/api/trips", token, sampleTrip("GALR210214"))
			require.Equal(t, http.StatusCreated, status, string(body))

			status, _ = c.do(http.MethodPost, "/api/trips", token, sampleTrip("GALR210214"))
			assert.Equal(t, http.StatusBadRequest, status)

			update := sampleTrip("IGNORED")
			update.PerPerson = "899.00"
			status, body = c.do(http.MethodPut, "/api/trips/GALR210214", token, update)
			require.Equal(t, http.StatusOK, status, string(body))

			status, body = c.do(http.MethodGet, "/api/trips/GALR210214", "", nil)
			require.Equal(t, http.StatusOK, status)
			var trip api.Trip
			require.NoError(t, json.Unmarshal(body, &trip))
			assert.Equal(t, "GALR210214", trip.Code)
			assert.Equal(t, "899.00", trip.PerPerson)
			assert.True(t, sampleTrip("").Start.Equal(trip.Start))

			status, _ = c.do(http.MethodPut, "/api/trips/NOPE", token, sampleTrip("NOPE"))
			assert.Equal(t, http.StatusNotFound, status)

			status, body = c.do(http.MethodGet, "/api/trips", "", nil)
			require.Equal(t, http.StatusOK, status)
			var trips []api.Trip
			require.NoError(t, json.Unmarshal(body, &trips))
			assert.Len(t, trips, 1)
		})
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts := startServer(t, testConfig(t, config.StorageBolt))
	c := &apiClient{t: t, base: ts.URL}

	status, body := c.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, string(body))

	status, _ = c.do(http.MethodPost, "/api/login", "", api.LoginRequest{Email: "nobody@example.com", Password: "x"})
	require.Equal(t, http.StatusNotFound, status)

	status, body = c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `travlr_auth_events_total{event="login",outcome="not_found"} 1`)
	assert.Contains(t, string(body), `travlr_http_requests_total{method="POST",route="POST /api/login",status="404"} 1`)
}

func TestServer_RateLimitsAuthEndpoints(t *testing.T) {
	cfg := testConfig(t, config.StorageBolt)
	cfg.AuthRateLimit = 2
	ts := startServer(t, cfg)
	c := &apiClient{t: t, base: ts.URL}

	login := api.LoginRequest{Email: "nobody@example.com", Password: "x"}
	for i := 0; i < 2; i++ {
		status, _ := c.do(http.MethodPost, "/api/login", "", login)
		assert.Equal(t, http.StatusNotFound, status)
	}

	status, _ := c.do(http.MethodPost, "/api/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, status)

	// каталог не ограничивается
	for i := 0; i < 5; i++ {
		status, _ := c.do(http.MethodGet, "/api/trips", "", nil)
		assert.Equal(t, http.StatusOK, status)
	}

	// подмена X-Forwarded-For не сбрасывает лимит
	for i := 0; i < 5; i++ {
		status, _ := c.doWithHeaders(http.MethodPost, "/api/register", "", api.RegisterRequest{
			Name: "Spoof", Email: fmt.Sprintf("spoof%d@example.com", i), Password: "pw",
		}, map[string]string{"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i)})
		if i < 2 {
			assert.Equal(t, http.StatusOK, status)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, status)
		}
	}
	for i := 0; i < 5; i++ {
		status, _ := c.doWithHeaders(http.MethodPost, "/api/login", "", login,
			map[string]string{"X-Forwarded-For": fmt.Sprintf("10.0.1.%d", i), "X-Real-IP": fmt.Sprintf("10.0.2.%d", i)})
		assert.Equal(t, http.StatusTooManyRequests, status)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts := startServer(t, testConfig(t, config.StorageBolt))
	c := &apiClient{t: t, base: ts.URL}

	status, _ := c.do(http.MethodDelete, "/api/trips/GALR210214", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestNew_EmptySecret(t *testing.T) {
	cfg := testConfig(t, config.StorageBolt)
	cfg.JWTSecret = ""

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = New(cfg, testLogger(), store, "test")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := testConfig(t, "mongo")

	_, err := OpenStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, config.StorageBolt)
	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	srv, err := New(cfg, testLogger(), store, "test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Error(t, store.Ping(context.Background()), "storage must be closed after shutdown")
}
