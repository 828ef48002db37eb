package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/repositories"
	"github.com/maplecrest/rinkside/storage"
)

type CharacterService interface {
	ListCharacters(ctx context.Context) ([]models.Character, error)
	ListByCreator(ctx context.Context, userID int) ([]models.Character, error)
	CreateCharacter(ctx context.Context, input CreateCharacterInput) (*models.Character, error)
	GetCharacter(ctx context.Context, id int) (*models.Character, error)
	GetProfile(ctx context.Context, id, viewerID int) (*CharacterProfile, error)
	UpdateCharacter(ctx context.Context, id int, input UpdateCharacterInput) (*models.Character, error)
	AddGalleryImage(ctx context.Context, id int, imgURL, caption string) (models.Gallery, error)
	AddConnection(ctx context.Context, characterID int, input AddConnectionInput) (*models.Connection, error)
	UpdateAvatar(ctx context.Context, id int, contentType string, file io.Reader) (*models.Character, error)
}

type CreateCharacterInput struct {
	Name         string
	Role         string
	Nickname     *string
	AvatarURL    *string
	TeamID       *int
	Position     *string
	JerseyNumber *int
	Bio          *string

	// CreatedBy is the session user. Character creation requires an
	// authenticated user; ownership is fixed here and never changes.
	CreatedBy int
}

// UpdateCharacterInput mirrors the flat edit form. Nil means the field was
// absent and keeps its stored value; a present empty string becomes NULL.
// Numeric and date fields arrive as raw form text and degrade to NULL when
// unparseable rather than failing the submit.
type UpdateCharacterInput struct {
	Name         *string
	Nickname     *string
	Age          *string
	Birthday     *string
	Zodiac       *string
	Hometown     *string
	Education    *string
	Occupation   *string
	Sexuality    *string
	Pronouns     *string
	Languages    *string
	Religion     *string
	Gender       *string
	URL          *string
	Role         *string
	Position     *string
	JerseyNumber *string
	TeamID       *string
	Job          *string
	Bio          *string
	Faceclaim    *string
	AvatarURL    *string
	BannerURL    *string
	SidebarURL   *string
	SpotifyEmbed *string
	Quote        *string
	Personality  *string
	Strengths    *string
	Weaknesses   *string
	Likes        *string
	Dislikes     *string
	Fears        *string
	Goals        *string
	Appearance   *string
	Background   *string
	Skills       *string
	FavFood      *string
	FavMusic     *string
	FavMovies    *string
	FavColor     *string
	FavSports    *string
	Inspiration  *string
	FullBio      *string
	IsPrivate    *bool
	IsArchived   *bool

	// Gallery, when present, is a comma-separated URL list that replaces
	// the stored gallery wholesale. The append path is AddGalleryImage.
	Gallery *string
}

type AddConnectionInput struct {
	ConnectedCharacterID int
	Relationship         string
	Details              *string
}

type CharacterProfile struct {
	Character     *models.Character
	Gallery       models.Gallery
	Connections   []models.Connection
	AllCharacters []models.CharacterRef
	IsOwner       bool
}

type characterService struct {
	characterRepo  repositories.CharacterRepository
	connectionRepo repositories.ConnectionRepository
	uploader       storage.FileUploader
}

func NewCharacterService(
	characterRepo repositories.CharacterRepository,
	connectionRepo repositories.ConnectionRepository,
	uploader storage.FileUploader,
) CharacterService {
	return &characterService{
		characterRepo:  characterRepo,
		connectionRepo: connectionRepo,
		uploader:       uploader,
	}
}

func (s *characterService) ListCharacters(ctx context.Context) ([]models.Character, error) {
	characters, err := s.characterRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	if characters == nil {
		characters = []models.Character{}
	}
	return characters, nil
}

func (s *characterService) ListByCreator(ctx context.Context, userID int) ([]models.Character, error) {
	characters, err := s.characterRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters for user %d: %w", userID, err)
	}
	if characters == nil {
		characters = []models.Character{}
	}
	return characters, nil
}

func (s *characterService) CreateCharacter(ctx context.Context, input CreateCharacterInput) (*models.Character, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCharacterNameRequired
	}
	role := models.CharacterRole(input.Role)
	if !role.Valid() {
		return nil, ErrCharacterRoleInvalid
	}

	character := &models.Character{
		Name:         name,
		Role:         role,
		Nickname:     normalized(input.Nickname),
		AvatarURL:    normalized(input.AvatarURL),
		TeamID:       input.TeamID,
		Position:     normalized(input.Position),
		JerseyNumber: input.JerseyNumber,
		Bio:          normalized(input.Bio),
		CreatedBy:    input.CreatedBy,
	}

	if err := s.characterRepo.Create(ctx, character); err != nil {
		if errors.Is(err, repositories.ErrCharacterTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return character, nil
}

func (s *characterService) GetCharacter(ctx context.Context, id int) (*models.Character, error) {
	character, err := s.characterRepo.GetByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to get character %d: %w", id, err)
	}
	return character, nil
}

func (s *characterService) GetProfile(ctx context.Context, id, viewerID int) (*CharacterProfile, error) {
	character, err := s.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}

	connections, err := s.connectionRepo.ListByCharacter(ctx, character.ID)
	if err != nil {
		return nil, err
	}
	others, err := s.characterRepo.ListRefsExcluding(ctx, character.ID)
	if err != nil {
		return nil, err
	}

	return &CharacterProfile{
		Character:     character,
		Gallery:       models.ParseGallery(character.GalleryRaw),
		Connections:   connections,
		AllCharacters: others,
		IsOwner:       viewerID != 0 && character.CreatedBy == viewerID,
	}, nil
}

func (s *characterService) UpdateCharacter(ctx context.Context, id int, input UpdateCharacterInput) (*models.Character, error) {
	character, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to load character %d: %w", id, err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCharacterNameRequired
		}
		character.Name = name
	}
	if input.Role != nil {
		role := models.CharacterRole(*input.Role)
		if !role.Valid() {
			return nil, ErrCharacterRoleInvalid
		}
		character.Role = role
	}

	applyString(input.Nickname, &character.Nickname)
	applyString(input.Zodiac, &character.Zodiac)
	applyString(input.Hometown, &character.Hometown)
	applyString(input.Education, &character.Education)
	applyString(input.Occupation, &character.Occupation)
	applyString(input.Sexuality, &character.Sexuality)
	applyString(input.Pronouns, &character.Pronouns)
	applyString(input.Languages, &character.Languages)
	applyString(input.Religion, &character.Religion)
	applyString(input.Gender, &character.Gender)
	applyString(input.URL, &character.URL)
	applyString(input.Position, &character.Position)
	applyString(input.Job, &character.Job)
	applyString(input.Bio, &character.Bio)
	applyString(input.Faceclaim, &character.Faceclaim)
	applyString(input.AvatarURL, &character.AvatarURL)
	applyString(input.BannerURL, &character.BannerURL)
	applyString(input.SidebarURL, &character.SidebarURL)
	applyString(input.SpotifyEmbed, &character.SpotifyEmbed)
	applyString(input.Quote, &character.Quote)
	applyString(input.Personality, &character.Personality)
	applyString(input.Strengths, &character.Strengths)
	applyString(input.Weaknesses, &character.Weaknesses)
	applyString(input.Likes, &character.Likes)
	applyString(input.Dislikes, &character.Dislikes)
	applyString(input.Fears, &character.Fears)
	applyString(input.Goals, &character.Goals)
	applyString(input.Appearance, &character.Appearance)
	applyString(input.Background, &character.Background)
	applyString(input.Skills, &character.Skills)
	applyString(input.FavFood, &character.FavFood)
	applyString(input.FavMusic, &character.FavMusic)
	applyString(input.FavMovies, &character.FavMovies)
	applyString(input.FavColor, &character.FavColor)
	applyString(input.FavSports, &character.FavSports)
	applyString(input.Inspiration, &character.Inspiration)
	applyString(input.FullBio, &character.FullBio)

	if input.Age != nil {
		character.Age = parseOptionalInt(*input.Age)
	}
	if input.JerseyNumber != nil {
		character.JerseyNumber = parseOptionalInt(*input.JerseyNumber)
	}
	if input.TeamID != nil {
		character.TeamID = parseOptionalInt(*input.TeamID)
	}
	if input.Birthday != nil {
		// An unparseable birthday is nulled, never rejected.
		character.Birthday = parseOptionalDate(*input.Birthday)
	}
	if input.IsPrivate != nil {
		character.IsPrivate = *input.IsPrivate
	}
	if input.IsArchived != nil {
		character.IsArchived = *input.IsArchived
	}
	if input.Gallery != nil {
		character.GalleryRaw = galleryFromURLList(*input.Gallery).Encode()
	}

	if err := s.characterRepo.Update(ctx, character); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCharacterNotFound):
			return nil, ErrCharacterNotFound
		case errors.Is(err, repositories.ErrCharacterTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update character %d: %w", id, err)
	}
	return character, nil
}

// AddGalleryImage appends one entry to the stored gallery. This is a
// read-modify-write without a guard; concurrent appends to the same
// character can lose one entry, which is accepted at this contention level.
func (s *characterService) AddGalleryImage(ctx context.Context, id int, imgURL, caption string) (models.Gallery, error) {
	if strings.TrimSpace(imgURL) == "" {
		return nil, ErrImageURLRequired
	}

	character, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to load character %d: %w", id, err)
	}

	gallery := models.ParseGallery(character.GalleryRaw)
	gallery = append(gallery, models.GalleryImage{URL: strings.TrimSpace(imgURL), Caption: caption})
	character.GalleryRaw = gallery.Encode()

	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to save gallery for character %d: %w", id, err)
	}
	return gallery, nil
}

func (s *characterService) AddConnection(ctx context.Context, characterID int, input AddConnectionInput) (*models.Connection, error) {
	if strings.TrimSpace(input.Relationship) == "" {
		return nil, ErrRelationshipRequired
	}
	if input.ConnectedCharacterID == characterID {
		return nil, ErrSelfConnection
	}

	// Both endpoints must resolve before the row is written.
	if _, err := s.characterRepo.GetByID(ctx, characterID); err != nil {
		if errors.Is(err, repositories.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to load character %d: %w", characterID, err)
	}
	if _, err := s.characterRepo.GetByID(ctx, input.ConnectedCharacterID); err != nil {
		if errors.Is(err, repositories.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to load character %d: %w", input.ConnectedCharacterID, err)
	}

	connection := &models.Connection{
		CharacterID:          characterID,
		ConnectedCharacterID: input.ConnectedCharacterID,
		Relationship:         strings.TrimSpace(input.Relationship),
		Details:              normalized(input.Details),
	}

	if err := s.connectionRepo.Create(ctx, connection); err != nil {
		if errors.Is(err, repositories.ErrConnectionCharacterInvalid) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return connection, nil
}

func (s *characterService) UpdateAvatar(ctx context.Context, id int, contentType string, file io.Reader) (*models.Character, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	character, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to load character %d: %w", id, err)
	}

	key := fmt.Sprintf("characters/%d/avatar", character.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload character avatar: %w", err)
	}

	character.AvatarURL = &result.Location
	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to store character avatar URL: %w", err)
	}
	return character, nil
}

func applyString(src *string, dst **string) {
	if src == nil {
		return
	}
	*dst = normalized(src)
}

func parseOptionalInt(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}

// parseOptionalDate accepts the formats browsers and people submit.
func parseOptionalDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}
	return nil
}

// galleryFromURLList converts a comma-separated URL list into gallery
// entries with empty captions.
func galleryFromURLList(raw string) models.Gallery {
	var gallery models.Gallery
	for _, part := range strings.Split(raw, ",") {
		url := strings.TrimSpace(part)
		if url == "" {
			continue
		}
		gallery = append(gallery, models.GalleryImage{URL: url})
	}
	return gallery
}
