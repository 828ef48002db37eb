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
	ErrConnectionNotFound         = errors.New("connection not found")
	ErrConnectionCharacterInvalid = errors.New("connection references an unknown character")
)

type ConnectionRepository interface {
	Create(ctx context.Context, connection *models.Connection) error
	GetByIDWithRelations(ctx context.Context, id int) (*models.Connection, error)
	ListByCharacter(ctx context.Context, characterID int) ([]models.Connection, error)
	AddSong(ctx context.Context, song *models.ConnectionSong) error
}

type postgresConnectionRepository struct {
	db *sql.DB
}

func NewPostgresConnectionRepository(db *sql.DB) ConnectionRepository {
	return &postgresConnectionRepository{db: db}
}

func (r *postgresConnectionRepository) Create(ctx context.Context, connection *models.Connection) error {
	query := `
		INSERT INTO connections (character_id, connected_character_id, relationship, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		connection.CharacterID,
		connection.ConnectedCharacterID,
		connection.Relationship,
		connection.Details,
	).Scan(&connection.ID, &connection.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrConnectionCharacterInvalid
		}
		return fmt.Errorf("failed to insert connection: %w", err)
	}
	return nil
}

func (r *postgresConnectionRepository) GetByIDWithRelations(ctx context.Context, id int) (*models.Connection, error) {
	query := `
		SELECT cn.id, cn.character_id, cn.connected_character_id,
			cn.relationship, cn.details, cn.created_at,
			src.id, src.name, src.avatar_url,
			dst.id, dst.name, dst.avatar_url
		FROM connections cn
		JOIN characters src ON cn.character_id = src.id
		JOIN characters dst ON cn.connected_character_id = dst.id
		WHERE cn.id = $1`

	var connection models.Connection
	var source, target models.CharacterRef

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&connection.ID,
		&connection.CharacterID,
		&connection.ConnectedCharacterID,
		&connection.Relationship,
		&connection.Details,
		&connection.CreatedAt,
		&source.ID, &source.Name, &source.AvatarURL,
		&target.ID, &target.Name, &target.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to scan connection %d: %w", id, err)
	}

	connection.Character = &source
	connection.ConnectedCharacter = &target

	songs, err := r.listSongs(ctx, id)
	if err != nil {
		return nil, err
	}
	connection.Songs = songs

	return &connection, nil
}

func (r *postgresConnectionRepository) ListByCharacter(ctx context.Context, characterID int) ([]models.Connection, error) {
	query := `
		SELECT cn.id, cn.character_id, cn.connected_character_id,
			cn.relationship, cn.details, cn.created_at,
			dst.id, dst.name, dst.avatar_url
		FROM connections cn
		JOIN characters dst ON cn.connected_character_id = dst.id
		WHERE cn.character_id = $1
		ORDER BY cn.id ASC`

	rows, err := r.db.QueryContext(ctx, query, characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections for character %d: %w", characterID, err)
	}
	defer rows.Close()

	var connections []models.Connection
	for rows.Next() {
		var connection models.Connection
		var target models.CharacterRef
		err := rows.Scan(
			&connection.ID,
			&connection.CharacterID,
			&connection.ConnectedCharacterID,
			&connection.Relationship,
			&connection.Details,
			&connection.CreatedAt,
			&target.ID, &target.Name, &target.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection row: %w", err)
		}
		connection.ConnectedCharacter = &target
		connections = append(connections, connection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate connections: %w", err)
	}
	return connections, nil
}

func (r *postgresConnectionRepository) AddSong(ctx context.Context, song *models.ConnectionSong) error {
	query := `
		INSERT INTO connection_songs (connection_id, title, spotify_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		song.ConnectionID,
		song.Title,
		song.SpotifyURL,
	).Scan(&song.ID, &song.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrConnectionNotFound
		}
		return fmt.Errorf("failed to insert connection song: %w", err)
	}
	return nil
}

func (r *postgresConnectionRepository) listSongs(ctx context.Context, connectionID int) ([]models.ConnectionSong, error) {
	query := `
		SELECT id, connection_id, title, spotify_url, created_at
		FROM connection_songs
		WHERE connection_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for connection %d: %w", connectionID, err)
	}
	defer rows.Close()

	var songs []models.ConnectionSong
	for rows.Next() {
		var song models.ConnectionSong
		if err := rows.Scan(&song.ID, &song.ConnectionID, &song.Title, &song.SpotifyURL, &song.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	return songs, nil
}
