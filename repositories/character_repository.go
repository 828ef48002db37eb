package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/maplecrest/rinkside/models"
)

var (
	ErrCharacterNotFound       = errors.New("character not found")
	ErrCharacterTeamInvalid    = errors.New("character references an unknown team")
	ErrCharacterCreatorInvalid = errors.New("character references an unknown creator")
)

const characterColumns = `c.id, c.name, c.nickname, c.age, c.birthday, c.zodiac,
	c.hometown, c.education, c.occupation, c.sexuality, c.pronouns, c.languages,
	c.religion, c.gender, c.url, c.role, c.position, c.jersey_number, c.team_id,
	c.job, c.bio, c.faceclaim, c.avatar_url, c.banner_url, c.sidebar_url,
	c.spotify_embed, c.quote, c.personality, c.strengths, c.weaknesses, c.likes,
	c.dislikes, c.fears, c.goals, c.appearance, c.background, c.skills,
	c.fav_food, c.fav_music, c.fav_movies, c.fav_color, c.fav_sports,
	c.inspiration, c.full_bio, c.is_private, c.is_archived, c.gallery,
	c.created_by, c.created_at, c.updated_at`

type CharacterRepository interface {
	Create(ctx context.Context, character *models.Character) error
	GetByID(ctx context.Context, id int) (*models.Character, error)
	GetByIDWithRelations(ctx context.Context, id int) (*models.Character, error)
	ListAll(ctx context.Context) ([]models.Character, error)
	ListByCreator(ctx context.Context, userID int) ([]models.Character, error)
	ListRefsExcluding(ctx context.Context, excludeID int) ([]models.CharacterRef, error)
	Update(ctx context.Context, character *models.Character) error
	CountByTeam(ctx context.Context, teamID int) (int, error)
	CountByTeamAndRole(ctx context.Context, teamID int, role models.CharacterRole) (int, error)
	ListFeatured(ctx context.Context, teamID, limit int) ([]models.Character, error)
	ListByTeam(ctx context.Context, teamID int, role *models.CharacterRole) ([]models.Character, error)
}

type postgresCharacterRepository struct {
	db *sql.DB
}

func NewPostgresCharacterRepository(db *sql.DB) CharacterRepository {
	return &postgresCharacterRepository{db: db}
}

func (r *postgresCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	query := `
		INSERT INTO characters (name, nickname, age, birthday, zodiac, hometown,
			education, occupation, sexuality, pronouns, languages, religion,
			gender, url, role, position, jersey_number, team_id, job, bio,
			faceclaim, avatar_url, banner_url, sidebar_url, spotify_embed, quote,
			personality, strengths, weaknesses, likes, dislikes, fears, goals,
			appearance, background, skills, fav_food, fav_music, fav_movies,
			fav_color, fav_sports, inspiration, full_bio, is_private, is_archived,
			gallery, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44, $45, $46, $47)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		character.Name, character.Nickname, character.Age, character.Birthday,
		character.Zodiac, character.Hometown, character.Education,
		character.Occupation, character.Sexuality, character.Pronouns,
		character.Languages, character.Religion, character.Gender, character.URL,
		character.Role, character.Position, character.JerseyNumber,
		character.TeamID, character.Job, character.Bio, character.Faceclaim,
		character.AvatarURL, character.BannerURL, character.SidebarURL,
		character.SpotifyEmbed, character.Quote, character.Personality,
		character.Strengths, character.Weaknesses, character.Likes,
		character.Dislikes, character.Fears, character.Goals,
		character.Appearance, character.Background, character.Skills,
		character.FavFood, character.FavMusic, character.FavMovies,
		character.FavColor, character.FavSports, character.Inspiration,
		character.FullBio, character.IsPrivate, character.IsArchived,
		character.GalleryRaw, character.CreatedBy,
	).Scan(&character.ID, &character.CreatedAt, &character.UpdatedAt)

	if err != nil {
		return mapCharacterError(err, "failed to insert character")
	}
	return nil
}

func (r *postgresCharacterRepository) GetByID(ctx context.Context, id int) (*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters c WHERE c.id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var character models.Character
	if err := scanCharacter(row, &character); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to scan character %d: %w", id, err)
	}
	return &character, nil
}

func (r *postgresCharacterRepository) GetByIDWithRelations(ctx context.Context, id int) (*models.Character, error) {
	query := `
		SELECT ` + characterColumns + `,
			t.id, t.name,
			u.id, u.username
		FROM characters c
		LEFT JOIN teams t ON c.team_id = t.id
		JOIN users u ON c.created_by = u.id
		WHERE c.id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var character models.Character
	var teamID sql.NullInt64
	var teamName sql.NullString
	var creator models.User

	err := scanCharacter(row, &character, &teamID, &teamName, &creator.ID, &creator.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to scan character %d with relations: %w", id, err)
	}

	if teamID.Valid {
		character.Team = &models.Team{ID: int(teamID.Int64), Name: teamName.String}
	}
	character.Creator = &creator
	return &character, nil
}

func (r *postgresCharacterRepository) ListAll(ctx context.Context) ([]models.Character, error) {
	query := `
		SELECT ` + characterColumns + `,
			t.id, t.name,
			u.id, u.username
		FROM characters c
		LEFT JOIN teams t ON c.team_id = t.id
		JOIN users u ON c.created_by = u.id
		ORDER BY c.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	var characters []models.Character
	for rows.Next() {
		var character models.Character
		var teamID sql.NullInt64
		var teamName sql.NullString
		var creator models.User

		if err := scanCharacter(rows, &character, &teamID, &teamName, &creator.ID, &creator.Username); err != nil {
			return nil, fmt.Errorf("failed to scan character row: %w", err)
		}
		if teamID.Valid {
			character.Team = &models.Team{ID: int(teamID.Int64), Name: teamName.String}
		}
		character.Creator = &creator
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate characters: %w", err)
	}
	return characters, nil
}

func (r *postgresCharacterRepository) ListByCreator(ctx context.Context, userID int) ([]models.Character, error) {
	query := `
		SELECT ` + characterColumns + `,
			u.id, u.username
		FROM characters c
		JOIN users u ON c.created_by = u.id
		WHERE c.created_by = $1
		ORDER BY c.name ASC`

	return r.listWithCreator(ctx, query, userID)
}

func (r *postgresCharacterRepository) ListRefsExcluding(ctx context.Context, excludeID int) ([]models.CharacterRef, error) {
	query := `
		SELECT id, name, avatar_url
		FROM characters
		WHERE id <> $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query character refs: %w", err)
	}
	defer rows.Close()

	var refs []models.CharacterRef
	for rows.Next() {
		var ref models.CharacterRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan character ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate character refs: %w", err)
	}
	return refs, nil
}

func (r *postgresCharacterRepository) Update(ctx context.Context, character *models.Character) error {
	query := `
		UPDATE characters SET
			name = $1, nickname = $2, age = $3, birthday = $4, zodiac = $5,
			hometown = $6, education = $7, occupation = $8, sexuality = $9,
			pronouns = $10, languages = $11, religion = $12, gender = $13,
			url = $14, role = $15, position = $16, jersey_number = $17,
			team_id = $18, job = $19, bio = $20, faceclaim = $21,
			avatar_url = $22, banner_url = $23, sidebar_url = $24,
			spotify_embed = $25, quote = $26, personality = $27,
			strengths = $28, weaknesses = $29, likes = $30, dislikes = $31,
			fears = $32, goals = $33, appearance = $34, background = $35,
			skills = $36, fav_food = $37, fav_music = $38, fav_movies = $39,
			fav_color = $40, fav_sports = $41, inspiration = $42,
			full_bio = $43, is_private = $44, is_archived = $45, gallery = $46,
			updated_at = now()
		WHERE id = $47`

	result, err := r.db.ExecContext(ctx, query,
		character.Name, character.Nickname, character.Age, character.Birthday,
		character.Zodiac, character.Hometown, character.Education,
		character.Occupation, character.Sexuality, character.Pronouns,
		character.Languages, character.Religion, character.Gender, character.URL,
		character.Role, character.Position, character.JerseyNumber,
		character.TeamID, character.Job, character.Bio, character.Faceclaim,
		character.AvatarURL, character.BannerURL, character.SidebarURL,
		character.SpotifyEmbed, character.Quote, character.Personality,
		character.Strengths, character.Weaknesses, character.Likes,
		character.Dislikes, character.Fears, character.Goals,
		character.Appearance, character.Background, character.Skills,
		character.FavFood, character.FavMusic, character.FavMovies,
		character.FavColor, character.FavSports, character.Inspiration,
		character.FullBio, character.IsPrivate, character.IsArchived,
		character.GalleryRaw, character.ID,
	)
	if err != nil {
		return mapCharacterError(err, fmt.Sprintf("failed to update character %d", character.ID))
	}
	return checkAffectedRows(result, ErrCharacterNotFound)
}

func (r *postgresCharacterRepository) CountByTeam(ctx context.Context, teamID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM characters WHERE team_id = $1`, teamID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count characters for team %d: %w", teamID, err)
	}
	return count, nil
}

func (r *postgresCharacterRepository) CountByTeamAndRole(ctx context.Context, teamID int, role models.CharacterRole) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM characters WHERE team_id = $1 AND role = $2`, teamID, role,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s characters for team %d: %w", role, teamID, err)
	}
	return count, nil
}

func (r *postgresCharacterRepository) ListFeatured(ctx context.Context, teamID, limit int) ([]models.Character, error) {
	query := `
		SELECT ` + characterColumns + `,
			u.id, u.username
		FROM characters c
		JOIN users u ON c.created_by = u.id
		WHERE c.team_id = $1
			AND c.role = $2
			AND NOT c.is_private
			AND NOT c.is_archived
		ORDER BY c.created_at DESC
		LIMIT $3`

	return r.listWithCreator(ctx, query, teamID, models.RolePlayer, limit)
}

func (r *postgresCharacterRepository) ListByTeam(ctx context.Context, teamID int, role *models.CharacterRole) ([]models.Character, error) {
	order := `c.name ASC`
	if role != nil && *role == models.RolePlayer {
		order = `c.jersey_number ASC NULLS LAST, c.name ASC`
	}

	query := `
		SELECT ` + characterColumns + `,
			u.id, u.username
		FROM characters c
		JOIN users u ON c.created_by = u.id
		WHERE c.team_id = $1
			AND NOT c.is_archived
			AND ($2::varchar IS NULL OR c.role = $2)
		ORDER BY ` + order

	return r.listWithCreator(ctx, query, teamID, role)
}

func (r *postgresCharacterRepository) listWithCreator(ctx context.Context, query string, args ...interface{}) ([]models.Character, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	var characters []models.Character
	for rows.Next() {
		var character models.Character
		var creator models.User
		if err := scanCharacter(rows, &character, &creator.ID, &creator.Username); err != nil {
			return nil, fmt.Errorf("failed to scan character row: %w", err)
		}
		character.Creator = &creator
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate characters: %w", err)
	}
	return characters, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCharacter scans the characterColumns set into character, followed by
// any extra destinations appended by the caller's query.
func scanCharacter(row rowScanner, character *models.Character, extra ...interface{}) error {
	dest := []interface{}{
		&character.ID, &character.Name, &character.Nickname, &character.Age,
		&character.Birthday, &character.Zodiac, &character.Hometown,
		&character.Education, &character.Occupation, &character.Sexuality,
		&character.Pronouns, &character.Languages, &character.Religion,
		&character.Gender, &character.URL, &character.Role, &character.Position,
		&character.JerseyNumber, &character.TeamID, &character.Job,
		&character.Bio, &character.Faceclaim, &character.AvatarURL,
		&character.BannerURL, &character.SidebarURL, &character.SpotifyEmbed,
		&character.Quote, &character.Personality, &character.Strengths,
		&character.Weaknesses, &character.Likes, &character.Dislikes,
		&character.Fears, &character.Goals, &character.Appearance,
		&character.Background, &character.Skills, &character.FavFood,
		&character.FavMusic, &character.FavMovies, &character.FavColor,
		&character.FavSports, &character.Inspiration, &character.FullBio,
		&character.IsPrivate, &character.IsArchived, &character.GalleryRaw,
		&character.CreatedBy, &character.CreatedAt, &character.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func mapCharacterError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "characters_team_id_fkey":
			return ErrCharacterTeamInvalid
		case "characters_created_by_fkey":
			return ErrCharacterCreatorInvalid
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
