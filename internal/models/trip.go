package models

import "time"

// Trip is a single package in the travel catalogue.
type Trip struct {
	Start       time.Time `json:"start"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Length      string    `json:"length"`
	Resort      string    `json:"resort"`
	PerPerson   string    `json:"per_person"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
}
