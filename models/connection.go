package models

import "time"

// Connection is a directed relationship row. A link from A to B does not
// create or imply one from B to A.
type Connection struct {
	ID                   int       `json:"id" db:"id"`
	CharacterID          int       `json:"character_id" db:"character_id"`
	ConnectedCharacterID int       `json:"connected_character_id" db:"connected_character_id"`
	Relationship         string    `json:"relationship" db:"relationship"`
	Details              *string   `json:"details,omitempty" db:"details"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`

	Character          *CharacterRef    `json:"character,omitempty" db:"-"`
	ConnectedCharacter *CharacterRef    `json:"connected_character,omitempty" db:"-"`
	Songs              []ConnectionSong `json:"songs,omitempty" db:"-"`
}

type ConnectionSong struct {
	ID           int       `json:"id" db:"id"`
	ConnectionID int       `json:"connection_id" db:"connection_id"`
	Title        *string   `json:"title,omitempty" db:"title"`
	SpotifyURL   string    `json:"spotify_url" db:"spotify_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
