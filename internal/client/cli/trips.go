package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/travlr/internal/validation"
	pkgapi "github.com/iudanet/travlr/pkg/api"
)

const dateLayout = "2006-01-02"

func (c *Cli) runTripsList(ctx context.Context) error {
	trips, err := c.apiClient.ListTrips(ctx)
	if err != nil {
		return fmt.Errorf("failed to list trips: %w", err)
	}

	if len(trips) == 0 {
		c.io.Println("No trips found.")
		c.io.Println()
		c.io.Println("Use 'travlr trips add' to add the first trip.")
		return nil
	}

	c.io.Printf("Found %d trip(s):\n", len(trips))
	c.io.Println()
	for _, trip := range trips {
		c.io.Printf("  %-12s %-32s %s  %s\n", trip.Code, trip.Name, trip.Start.Format(dateLayout), trip.PerPerson)
	}

	return nil
}

func (c *Cli) runTripsGet(ctx context.Context, code string) error {
	trip, err := c.apiClient.GetTrip(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to get trip: %w", err)
	}

	c.printTrip(trip)
	return nil
}

func (c *Cli) runTripsAdd(ctx context.Context) error {
	// токен проверяем до ввода данных
	token, err := c.authService.Token(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Add Trip ===")
	c.io.Println()

	code, err := c.io.ReadInput("Code: ")
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}
	if err := validation.ValidateTripCode(code); err != nil {
		return err
	}

	trip := pkgapi.Trip{Code: code}
	if err := c.readTripFields(&trip); err != nil {
		return err
	}

	created, err := c.apiClient.AddTrip(ctx, token, trip)
	if err != nil {
		return fmt.Errorf("failed to add trip: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Trip added!")
	c.printTrip(created)
	return nil
}

func (c *Cli) runTripsUpdate(ctx context.Context, code string) error {
	token, err := c.authService.Token(ctx)
	if err != nil {
		return err
	}

	trip, err := c.apiClient.GetTrip(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to get trip: %w", err)
	}

	c.io.Printf("=== Update Trip %s ===\n", trip.Code)
	c.io.Println("Press Enter to keep the current value.")
	c.io.Println()

	if err := c.readTripFields(trip); err != nil {
		return err
	}

	updated, err := c.apiClient.UpdateTrip(ctx, token, code, *trip)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Trip updated!")
	c.printTrip(updated)
	return nil
}

// readTripFields запрашивает поля поездки; пустой ввод оставляет текущее значение
func (c *Cli) readTripFields(trip *pkgapi.Trip) error {
	fields := []struct {
		dst   *string
		label string
	}{
		{&trip.Name, "Name"},
		{&trip.Length, "Length"},
		{&trip.Resort, "Resort"},
		{&trip.PerPerson, "Price per person"},
		{&trip.Image, "Image"},
		{&trip.Description, "Description"},
	}

	for _, f := range fields {
		value, err := c.io.ReadInput(prompt(f.label, *f.dst))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(f.label), err)
		}
		if value != "" {
			*f.dst = value
		}
	}

	current := ""
	if !trip.Start.IsZero() {
		current = trip.Start.Format(dateLayout)
	}
	value, err := c.io.ReadInput(prompt("Start ("+dateLayout+")", current))
	if err != nil {
		return fmt.Errorf("failed to read start date: %w", err)
	}
	if value != "" {
		start, err := time.Parse(dateLayout, value)
		if err != nil {
			return fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", value)
		}
		trip.Start = start
	}

	return nil
}

func prompt(label, current string) string {
	if current == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, current)
}

func (c *Cli) printTrip(trip *pkgapi.Trip) {
	c.io.Println("=== Trip Details ===")
	c.io.Printf("Code:        %s\n", trip.Code)
	c.io.Printf("Name:        %s\n", trip.Name)
	c.io.Printf("Length:      %s\n", trip.Length)
	c.io.Printf("Start:       %s\n", trip.Start.Format(dateLayout))
	c.io.Printf("Resort:      %s\n", trip.Resort)
	c.io.Printf("Per person:  %s\n", trip.PerPerson)
	if trip.Image != "" {
		c.io.Printf("Image:       %s\n", trip.Image)
	}
	if trip.Description != "" {
		c.io.Println()
		c.io.Println(trip.Description)
	}
}
