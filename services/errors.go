package services

import (
	"errors"
	"fmt"
)

// Shared errors surfaced by the service layer and mapped by handlers.
var (
	// Not found
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrCharacterNotFound  = errors.New("character not found")
	ErrConnectionNotFound = errors.New("connection not found")

	// Validation and business rules
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrCharacterNameRequired  = errors.New("character name is required")
	ErrCharacterRoleInvalid   = errors.New("character role must be Player, Staff or Civilian")
	ErrRelationshipRequired   = errors.New("relationship is required")
	ErrSelfConnection         = errors.New("a character cannot be connected to itself")
	ErrImageURLRequired       = errors.New("image URL is required")
	ErrSpotifyURLRequired     = errors.New("spotify URL is required")
	ErrUsernameRequired       = errors.New("username is required")
	ErrEmailRequired          = errors.New("email is required")
	ErrPasswordRequired       = errors.New("password is required")

	// Conflicts
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrEmailTaken       = errors.New("email address is already in use")
	ErrTeamNameConflict = errors.New("a team with that name already exists")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TeamInUseError blocks team deletion while characters still reference the
// team. It carries the live count so the message can name it.
type TeamInUseError struct {
	TeamName       string
	CharacterCount int
}

func (e *TeamInUseError) Error() string {
	return fmt.Sprintf("cannot delete %s because it has %d associated characters; remove all characters from this team first",
		e.TeamName, e.CharacterCount)
}
