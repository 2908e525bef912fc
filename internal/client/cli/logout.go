package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/travlr/internal/client/storage"
)

func (c *Cli) runLogout(ctx context.Context) error {
	session, err := c.authService.Session(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		c.io.Println("No active session.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	// сервер токены не хранит, достаточно удалить локальную копию
	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Printf("✓ Logged out %s\n", session.Email)
	return nil
}
