package cli

import (
	"context"
	"errors"
	"fmt"
)

// ErrUsage is returned when the command line cannot be parsed
var ErrUsage = errors.New("invalid usage")

// Run выполняет команду. args[0] - имя команды.
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	switch args[0] {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "trips":
		return c.runTrips(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (c *Cli) runTrips(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing trips subcommand (list, get, add, update)", ErrUsage)
	}

	switch args[0] {
	case "list":
		return c.runTripsList(ctx)
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("%w: usage: travlr trips get CODE", ErrUsage)
		}
		return c.runTripsGet(ctx, args[1])
	case "add":
		return c.runTripsAdd(ctx)
	case "update":
		if len(args) < 2 {
			return fmt.Errorf("%w: usage: travlr trips update CODE", ErrUsage)
		}
		return c.runTripsUpdate(ctx, args[1])
	default:
		return fmt.Errorf("%w: unknown trips subcommand %q", ErrUsage, args[0])
	}
}
