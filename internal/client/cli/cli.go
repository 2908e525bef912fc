// Package cli implements the travlr admin client commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/iudanet/travlr/internal/client/auth"
	"github.com/iudanet/travlr/internal/client/iocli"
	pkgapi "github.com/iudanet/travlr/pkg/api"
)

// TripAPI is the part of the HTTP client used by trip and status commands
type TripAPI interface {
	Health(ctx context.Context) (*pkgapi.HealthResponse, error)
	ListTrips(ctx context.Context) ([]pkgapi.Trip, error)
	GetTrip(ctx context.Context, code string) (*pkgapi.Trip, error)
	AddTrip(ctx context.Context, token string, trip pkgapi.Trip) (*pkgapi.Trip, error)
	UpdateTrip(ctx context.Context, token, code string, trip pkgapi.Trip) (*pkgapi.Trip, error)
}

type Cli struct {
	io          iocli.IO
	authService auth.Service
	apiClient   TripAPI
}

func New(io iocli.IO, authService auth.Service, apiClient TripAPI) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		apiClient:   apiClient,
	}
}

func PrintUsage(w io.Writer) {
	lines := []string{
		"Travlr admin client",
		"",
		"Usage:",
		"  travlr [OPTIONS] COMMAND",
		"",
		"Options:",
		"  --version          Show version information",
		"  --server URL       Server URL (default: http://localhost:3000)",
		"  --db PATH          Path to local session database (default: travlr-client.db)",
		"",
		"Commands:",
		"  register           Register new user",
		"  login              Login to server",
		"  logout             Delete local session",
		"  status             Show session and server status",
		"  trips list         List all trips",
		"  trips get CODE     Show trip details",
		"  trips add          Add new trip (requires login)",
		"  trips update CODE  Update trip (requires login)",
		"",
		"Examples:",
		"  travlr login",
		"  travlr trips list",
		"  travlr --server https://travlr.example.com trips get GALR210214",
	}
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}
