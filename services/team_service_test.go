package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maplecrest/rinkside/models"
)

func newTestTeamService(teamRepo *fakeTeamRepo, characterRepo *fakeCharacterRepo, notifier TeamNotifier) TeamService {
	return NewTeamService(teamRepo, characterRepo, notifier, nil)
}

func TestCreateTeamRequiresName(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, newFakeCharacterRepo(), nil)

	_, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "   "})
	if !errors.Is(err, ErrTeamNameRequired) {
		t.Fatalf("expected ErrTeamNameRequired, got %v", err)
	}
	if len(teamRepo.teams) != 0 {
		t.Errorf("expected no teams persisted, got %d", len(teamRepo.teams))
	}
}

func TestCreateTeamDuplicateName(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, newFakeCharacterRepo(), nil)

	if _, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Maple Bay Otters", IsActive: true}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Maple Bay Otters", IsActive: true})
	if !errors.Is(err, ErrTeamNameConflict) {
		t.Fatalf("expected ErrTeamNameConflict, got %v", err)
	}
	if len(teamRepo.teams) != 1 {
		t.Errorf("expected 1 team persisted, got %d", len(teamRepo.teams))
	}
}

func TestCreateTeamNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestTeamService(newFakeTeamRepo(), newFakeCharacterRepo(), notifier)

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Harbor City Kraken", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(notifier.teams) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.teams))
	}
	if notifier.teams[0].ID != team.ID {
		t.Errorf("notification carries team %d, expected %d", notifier.teams[0].ID, team.ID)
	}
}

func TestUpdateTeamPartial(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, newFakeCharacterRepo(), nil)

	city := "Duluth"
	created, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "North Shore Pines", City: &city, IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mascot := "Piney"
	updated, err := svc.UpdateTeam(context.Background(), created.ID, UpdateTeamInput{Mascot: &mascot})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != "North Shore Pines" {
		t.Errorf("name changed to %q on partial update", updated.Name)
	}
	if updated.City == nil || *updated.City != "Duluth" {
		t.Errorf("city lost on partial update: %v", updated.City)
	}
	if updated.Mascot == nil || *updated.Mascot != "Piney" {
		t.Errorf("mascot not applied: %v", updated.Mascot)
	}
}

func TestUpdateTeamEmptyFieldClears(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, newFakeCharacterRepo(), nil)

	city := "Fargo"
	created, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Red River Foxes", City: &city, IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	empty := ""
	updated, err := svc.UpdateTeam(context.Background(), created.ID, UpdateTeamInput{City: &empty})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.City != nil {
		t.Errorf("expected city cleared to nil, got %q", *updated.City)
	}
}

func TestDeleteTeamBlockedByRoster(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	characterRepo := newFakeCharacterRepo()
	svc := newTestTeamService(teamRepo, characterRepo, nil)

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Glacier Point Wolves", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		teamID := team.ID
		characterRepo.Create(context.Background(), &models.Character{
			Name:      "Skater",
			Role:      models.RolePlayer,
			TeamID:    &teamID,
			CreatedBy: 1,
		})
	}

	err = svc.DeleteTeam(context.Background(), team.ID)

	var inUse *TeamInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected TeamInUseError, got %v", err)
	}
	if inUse.CharacterCount != 3 {
		t.Errorf("expected count 3 in error, got %d", inUse.CharacterCount)
	}
	if !strings.Contains(inUse.Error(), "3") {
		t.Errorf("error message should name the count: %q", inUse.Error())
	}
	if _, ok := teamRepo.teams[team.ID]; !ok {
		t.Error("team was deleted despite rostered characters")
	}
}

func TestDeleteTeamEmpty(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, newFakeCharacterRepo(), nil)

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Ghost Town Miners", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.DeleteTeam(context.Background(), team.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(teamRepo.teams) != 0 {
		t.Errorf("expected team removed, %d remain", len(teamRepo.teams))
	}
}

func TestDeleteTeamNotFound(t *testing.T) {
	svc := newTestTeamService(newFakeTeamRepo(), newFakeCharacterRepo(), nil)

	err := svc.DeleteTeam(context.Background(), 42)
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestUpdateLogoWithoutUploader(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, newFakeCharacterRepo(), nil)

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "Bay Street Bears", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.UpdateLogo(context.Background(), team.ID, "image/png", strings.NewReader("fake"))
	if !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("expected ErrUploadsDisabled, got %v", err)
	}
}
