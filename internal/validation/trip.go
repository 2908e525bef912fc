package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iudanet/travlr/internal/models"
)

// TripCodePattern: латиница, цифры, '_' и '-', от 1 до 32 символов
var TripCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// ValidateTripCode проверяет код тура
func ValidateTripCode(code string) error {
	if code == "" {
		return fmt.Errorf("trip code cannot be empty")
	}

	if !TripCodePattern.MatchString(code) {
		return fmt.Errorf("trip code can only contain letters, numbers, '_' and '-' (max 32)")
	}

	return nil
}

// ValidateTrip checks the fields required to publish a trip.
func ValidateTrip(trip *models.Trip) error {
	if err := ValidateTripCode(trip.Code); err != nil {
		return err
	}

	required := []struct {
		field string
		value string
	}{
		{"name", trip.Name},
		{"length", trip.Length},
		{"resort", trip.Resort},
		{"perPerson", trip.PerPerson},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.field)
		}
	}

	if trip.Start.IsZero() {
		return fmt.Errorf("start is required")
	}

	return nil
}
