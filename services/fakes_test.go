package services

import (
	"context"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/repositories"
)

// In-memory repositories for service tests. They mirror the error
// contracts of the postgres implementations: sentinel not-found errors
// and conflict errors on unique columns.

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	for id, existing := range f.users {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (f *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	for _, existing := range f.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = f.nextID
	f.nextID++
	copied := *team
	f.teams[team.ID] = &copied
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamRepo) GetByName(_ context.Context, name string) (*models.Team, error) {
	for _, team := range f.teams {
		if team.Name == name {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListAll(_ context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(f.teams))
	for _, team := range f.teams {
		teams = append(teams, *team)
	}
	return teams, nil
}

func (f *fakeTeamRepo) ListActive(_ context.Context) ([]models.Team, error) {
	var teams []models.Team
	for _, team := range f.teams {
		if team.IsActive {
			teams = append(teams, *team)
		}
	}
	return teams, nil
}

func (f *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := f.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	f.teams[team.ID] = &copied
	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

type fakeCharacterRepo struct {
	characters map[int]*models.Character
	nextID     int
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{characters: make(map[int]*models.Character), nextID: 1}
}

func (f *fakeCharacterRepo) Create(_ context.Context, character *models.Character) error {
	character.ID = f.nextID
	f.nextID++
	copied := *character
	f.characters[character.ID] = &copied
	return nil
}

func (f *fakeCharacterRepo) GetByID(_ context.Context, id int) (*models.Character, error) {
	character, ok := f.characters[id]
	if !ok {
		return nil, repositories.ErrCharacterNotFound
	}
	copied := *character
	return &copied, nil
}

func (f *fakeCharacterRepo) GetByIDWithRelations(ctx context.Context, id int) (*models.Character, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCharacterRepo) ListAll(_ context.Context) ([]models.Character, error) {
	characters := make([]models.Character, 0, len(f.characters))
	for _, character := range f.characters {
		characters = append(characters, *character)
	}
	return characters, nil
}

func (f *fakeCharacterRepo) ListByCreator(_ context.Context, userID int) ([]models.Character, error) {
	var characters []models.Character
	for _, character := range f.characters {
		if character.CreatedBy == userID {
			characters = append(characters, *character)
		}
	}
	return characters, nil
}

func (f *fakeCharacterRepo) ListRefsExcluding(_ context.Context, excludeID int) ([]models.CharacterRef, error) {
	var refs []models.CharacterRef
	for _, character := range f.characters {
		if character.ID == excludeID {
			continue
		}
		refs = append(refs, models.CharacterRef{ID: character.ID, Name: character.Name, AvatarURL: character.AvatarURL})
	}
	return refs, nil
}

func (f *fakeCharacterRepo) Update(_ context.Context, character *models.Character) error {
	if _, ok := f.characters[character.ID]; !ok {
		return repositories.ErrCharacterNotFound
	}
	copied := *character
	f.characters[character.ID] = &copied
	return nil
}

func (f *fakeCharacterRepo) CountByTeam(_ context.Context, teamID int) (int, error) {
	count := 0
	for _, character := range f.characters {
		if character.TeamID != nil && *character.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCharacterRepo) CountByTeamAndRole(_ context.Context, teamID int, role models.CharacterRole) (int, error) {
	count := 0
	for _, character := range f.characters {
		if character.TeamID != nil && *character.TeamID == teamID && character.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeCharacterRepo) ListFeatured(_ context.Context, teamID, limit int) ([]models.Character, error) {
	var characters []models.Character
	for _, character := range f.characters {
		if character.TeamID == nil || *character.TeamID != teamID {
			continue
		}
		if character.Role != models.RolePlayer || character.IsPrivate || character.IsArchived {
			continue
		}
		characters = append(characters, *character)
		if len(characters) == limit {
			break
		}
	}
	return characters, nil
}

func (f *fakeCharacterRepo) ListByTeam(_ context.Context, teamID int, role *models.CharacterRole) ([]models.Character, error) {
	var characters []models.Character
	for _, character := range f.characters {
		if character.TeamID == nil || *character.TeamID != teamID {
			continue
		}
		if role != nil && character.Role != *role {
			continue
		}
		characters = append(characters, *character)
	}
	return characters, nil
}

type fakeConnectionRepo struct {
	connections map[int]*models.Connection
	songs       map[int][]models.ConnectionSong
	nextID      int
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{
		connections: make(map[int]*models.Connection),
		songs:       make(map[int][]models.ConnectionSong),
		nextID:      1,
	}
}

func (f *fakeConnectionRepo) Create(_ context.Context, connection *models.Connection) error {
	connection.ID = f.nextID
	f.nextID++
	copied := *connection
	f.connections[connection.ID] = &copied
	return nil
}

func (f *fakeConnectionRepo) GetByIDWithRelations(_ context.Context, id int) (*models.Connection, error) {
	connection, ok := f.connections[id]
	if !ok {
		return nil, repositories.ErrConnectionNotFound
	}
	copied := *connection
	copied.Songs = f.songs[id]
	return &copied, nil
}

func (f *fakeConnectionRepo) ListByCharacter(_ context.Context, characterID int) ([]models.Connection, error) {
	var connections []models.Connection
	for _, connection := range f.connections {
		if connection.CharacterID == characterID {
			connections = append(connections, *connection)
		}
	}
	return connections, nil
}

func (f *fakeConnectionRepo) AddSong(_ context.Context, song *models.ConnectionSong) error {
	if _, ok := f.connections[song.ConnectionID]; !ok {
		return repositories.ErrConnectionNotFound
	}
	song.ID = len(f.songs[song.ConnectionID]) + 1
	f.songs[song.ConnectionID] = append(f.songs[song.ConnectionID], *song)
	return nil
}

// recordingNotifier captures TeamCreated calls.
type recordingNotifier struct {
	teams []*models.Team
}

func (n *recordingNotifier) TeamCreated(team *models.Team) {
	n.teams = append(n.teams, team)
}
