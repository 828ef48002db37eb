package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/repositories"
	"github.com/maplecrest/rinkside/storage"
)

// featuredPlayersLimit caps the "featured" block on a team page.
const featuredPlayersLimit = 6

// TeamNotifier receives best-effort team events. Implementations must not
// block and must never return control-flow errors to the caller.
type TeamNotifier interface {
	TeamCreated(team *models.Team)
}

var ErrUploadsDisabled = errors.New("file uploads are not configured")

type TeamService interface {
	ActiveTeams(ctx context.Context) ([]models.Team, error)
	AllTeamsWithCounts(ctx context.Context) ([]models.TeamWithCounts, error)
	TeamDetails(ctx context.Context, teamID int) (*TeamDetails, error)
	TeamRoster(ctx context.Context, teamID int) (*TeamRoster, error)
	TeamMembers(ctx context.Context, teamID int, role *models.CharacterRole) ([]models.Character, error)
	GetTeamByID(ctx context.Context, teamID int) (*models.Team, error)
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, teamID int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID int) error
	UpdateLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name           string
	Description    *string
	City           *string
	Mascot         *string
	LogoURL        *string
	PrimaryColor   *string
	SecondaryColor *string
	AccentColor    *string
	IsActive       bool
}

// UpdateTeamInput carries partial-update semantics: nil means "keep the
// stored value", a non-nil pointer overwrites, including with empty.
type UpdateTeamInput struct {
	Name           *string
	Description    *string
	City           *string
	Mascot         *string
	LogoURL        *string
	PrimaryColor   *string
	SecondaryColor *string
	AccentColor    *string
	IsActive       *bool
}

type TeamDetails struct {
	Team            *models.Team
	PlayerCount     int
	StaffCount      int
	FeaturedPlayers []models.Character
}

type TeamRoster struct {
	Team        *models.Team
	Players     []models.Character
	Staff       []models.Character
	PlayerCount int
	StaffCount  int
}

type teamService struct {
	teamRepo      repositories.TeamRepository
	characterRepo repositories.CharacterRepository
	notifier      TeamNotifier
	uploader      storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	characterRepo repositories.CharacterRepository,
	notifier TeamNotifier,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:      teamRepo,
		characterRepo: characterRepo,
		notifier:      notifier,
		uploader:      uploader,
	}
}

func (s *teamService) ActiveTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active teams: %w", err)
	}
	return teams, nil
}

// AllTeamsWithCounts issues two count queries per team. O(teams) round
// trips is fine at this scale; the directory page is small.
func (s *teamService) AllTeamsWithCounts(ctx context.Context) ([]models.TeamWithCounts, error) {
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	annotated := make([]models.TeamWithCounts, 0, len(teams))
	for _, team := range teams {
		playerCount, err := s.characterRepo.CountByTeamAndRole(ctx, team.ID, models.RolePlayer)
		if err != nil {
			return nil, err
		}
		staffCount, err := s.characterRepo.CountByTeamAndRole(ctx, team.ID, models.RoleStaff)
		if err != nil {
			return nil, err
		}
		annotated = append(annotated, models.TeamWithCounts{
			Team:        team,
			PlayerCount: playerCount,
			StaffCount:  staffCount,
		})
	}
	return annotated, nil
}

func (s *teamService) TeamDetails(ctx context.Context, teamID int) (*TeamDetails, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	playerCount, err := s.characterRepo.CountByTeamAndRole(ctx, team.ID, models.RolePlayer)
	if err != nil {
		return nil, err
	}
	staffCount, err := s.characterRepo.CountByTeamAndRole(ctx, team.ID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	featured, err := s.characterRepo.ListFeatured(ctx, team.ID, featuredPlayersLimit)
	if err != nil {
		return nil, err
	}

	return &TeamDetails{
		Team:            team,
		PlayerCount:     playerCount,
		StaffCount:      staffCount,
		FeaturedPlayers: featured,
	}, nil
}

func (s *teamService) TeamRoster(ctx context.Context, teamID int) (*TeamRoster, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	playerRole := models.RolePlayer
	players, err := s.characterRepo.ListByTeam(ctx, team.ID, &playerRole)
	if err != nil {
		return nil, err
	}
	staffRole := models.RoleStaff
	staff, err := s.characterRepo.ListByTeam(ctx, team.ID, &staffRole)
	if err != nil {
		return nil, err
	}

	return &TeamRoster{
		Team:        team,
		Players:     players,
		Staff:       staff,
		PlayerCount: len(players),
		StaffCount:  len(staff),
	}, nil
}

func (s *teamService) TeamMembers(ctx context.Context, teamID int, role *models.CharacterRole) ([]models.Character, error) {
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return nil, err
	}
	members, err := s.characterRepo.ListByTeam(ctx, teamID, role)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.Character{}
	}
	return members, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, teamID int) (*models.Team, error) {
	return s.getTeam(ctx, teamID)
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	// Exact, case-sensitive match, same as the unique index.
	if _, err := s.teamRepo.GetByName(ctx, name); err == nil {
		return nil, ErrTeamNameConflict
	} else if !errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	team := &models.Team{
		Name:           name,
		Description:    input.Description,
		City:           input.City,
		Mascot:         input.Mascot,
		LogoURL:        input.LogoURL,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		AccentColor:    input.AccentColor,
		IsActive:       input.IsActive,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	// Best-effort side channel. The notifier owns its failures; a lost
	// notification never rolls back or surfaces from the create.
	if s.notifier != nil {
		s.notifier.TeamCreated(team)
	}

	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, teamID int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		if name != team.Name {
			if _, err := s.teamRepo.GetByName(ctx, name); err == nil {
				return nil, ErrTeamNameConflict
			} else if !errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, fmt.Errorf("failed to check team name: %w", err)
			}
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = normalized(input.Description)
	}
	if input.City != nil {
		team.City = normalized(input.City)
	}
	if input.Mascot != nil {
		team.Mascot = normalized(input.Mascot)
	}
	if input.LogoURL != nil {
		team.LogoURL = normalized(input.LogoURL)
	}
	if input.PrimaryColor != nil {
		team.PrimaryColor = normalized(input.PrimaryColor)
	}
	if input.SecondaryColor != nil {
		team.SecondaryColor = normalized(input.SecondaryColor)
	}
	if input.AccentColor != nil {
		team.AccentColor = normalized(input.AccentColor)
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID int) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}

	// Referential guard lives here, not in the schema: the page needs the
	// count for its message.
	count, err := s.characterRepo.CountByTeam(ctx, team.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &TeamInUseError{TeamName: team.Name, CharacterCount: count}
	}

	if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	return nil
}

func (s *teamService) UpdateLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/logo", team.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	team.LogoURL = &result.Location
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to store team logo URL: %w", err)
	}
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

// normalized maps empty or whitespace-only form values to NULL.
func normalized(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
