package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/travlr/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	// недоступный сервер не ошибка для status
	health, err := c.apiClient.Health(ctx)
	if err != nil {
		c.io.Printf("Server: unavailable (%v)\n", err)
	} else {
		c.io.Printf("Server: %s (version %s)\n", health.Status, health.Version)
	}

	session, err := c.authService.Session(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Session: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'travlr login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	c.io.Println("Session: Authenticated")
	c.io.Printf("Server URL: %s\n", session.Server)
	c.io.Printf("User: %s <%s>\n", session.Name, session.Email)
	c.io.Printf("Token expires: %s\n", session.ExpiresAt.Local().Format(time.RFC3339))

	if remaining := time.Until(session.ExpiresAt); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}

	return nil
}
