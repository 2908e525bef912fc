package api

import "time"

// Trip is the wire representation of a catalogue entry.
type Trip struct {
	Start       time.Time `json:"start"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Length      string    `json:"length"`
	Resort      string    `json:"resort"`
	PerPerson   string    `json:"perPerson"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
