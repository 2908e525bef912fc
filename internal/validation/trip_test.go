package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/travlr/internal/models"
)

func validTrip() *models.Trip {
	return &models.Trip{
		Code:      "GALR210214",
		Name:      "Gale Reef",
		Length:    "4 nights / 5 days",
		Start:     time.Date(2021, 2, 14, 8, 0, 0, 0, time.UTC),
		Resort:    "Emerald Bay, 3 stars",
		PerPerson: "799.00",
	}
}

func TestValidateTripCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "letters and digits", code: "GALR210214"},
		{name: "dash and underscore", code: "reef_2021-a"},
		{name: "empty", code: "", wantErr: true},
		{name: "space", code: "GALR 21", wantErr: true},
		{name: "slash", code: "a/b", wantErr: true},
		{name: "too long", code: "A123456789012345678901234567890123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTripCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTrip(t *testing.T) {
	tests := []struct {
		mutate  func(*models.Trip)
		name    string
		errMsg  string
		wantErr bool
	}{
		{name: "valid", mutate: func(*models.Trip) {}},
		{name: "bad code", mutate: func(tr *models.Trip) { tr.Code = "" }, wantErr: true, errMsg: "trip code"},
		{name: "missing name", mutate: func(tr *models.Trip) { tr.Name = "  " }, wantErr: true, errMsg: "name is required"},
		{name: "missing resort", mutate: func(tr *models.Trip) { tr.Resort = "" }, wantErr: true, errMsg: "resort is required"},
		{name: "missing price", mutate: func(tr *models.Trip) { tr.PerPerson = "" }, wantErr: true, errMsg: "perPerson is required"},
		{name: "missing start", mutate: func(tr *models.Trip) { tr.Start = time.Time{} }, wantErr: true, errMsg: "start is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := validTrip()
			tt.mutate(trip)

			err := ValidateTrip(trip)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
