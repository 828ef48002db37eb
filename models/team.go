package models

import "time"

type Team struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	City           *string   `json:"city,omitempty" db:"city"`
	Mascot         *string   `json:"mascot,omitempty" db:"mascot"`
	LogoURL        *string   `json:"logo_url,omitempty" db:"logo_url"`
	PrimaryColor   *string   `json:"primary_color,omitempty" db:"primary_color"`
	SecondaryColor *string   `json:"secondary_color,omitempty" db:"secondary_color"`
	AccentColor    *string   `json:"accent_color,omitempty" db:"accent_color"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TeamWithCounts is a Team annotated with live roster counts, as shown on
// the team directory page.
type TeamWithCounts struct {
	Team
	PlayerCount int `json:"player_count"`
	StaffCount  int `json:"staff_count"`
}
