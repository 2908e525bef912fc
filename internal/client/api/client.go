// Package api is the HTTP client of the Travlr REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/travlr/pkg/api"
)

// Error is a non-2xx response from the server.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Register регистрирует нового пользователя и возвращает токен сессии
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает claims текущего токена
func (c *Client) Me(ctx context.Context, token string) (*api.ClaimsResponse, error) {
	var resp api.ClaimsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// ListTrips возвращает весь каталог
func (c *Client) ListTrips(ctx context.Context) ([]api.Trip, error) {
	var resp []api.Trip
	if err := c.doRequest(ctx, http.MethodGet, "/api/trips", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list trips request failed: %w", err)
	}
	return resp, nil
}

// GetTrip возвращает тур по коду
func (c *Client) GetTrip(ctx context.Context, code string) (*api.Trip, error) {
	var resp api.Trip
	if err := c.doRequest(ctx, http.MethodGet, "/api/trips/"+url.PathEscape(code), "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get trip request failed: %w", err)
	}
	return &resp, nil
}

// AddTrip создает тур (нужен токен)
func (c *Client) AddTrip(ctx context.Context, token string, trip api.Trip) (*api.Trip, error) {
	var resp api.Trip
	if err := c.doRequest(ctx, http.MethodPost, "/api/trips", token, trip, &resp); err != nil {
		return nil, fmt.Errorf("add trip request failed: %w", err)
	}
	return &resp, nil
}

// UpdateTrip обновляет тур с кодом code (нужен токен)
func (c *Client) UpdateTrip(ctx context.Context, token, code string, trip api.Trip) (*api.Trip, error) {
	var resp api.Trip
	if err := c.doRequest(ctx, http.MethodPut, "/api/trips/"+url.PathEscape(code), token, trip, &resp); err != nil {
		return nil, fmt.Errorf("update trip request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос. Не-2xx ответы возвращаются как *Error.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
