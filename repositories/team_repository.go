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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

const teamColumns = `id, name, description, city, mascot, logo_url,
	primary_color, secondary_color, accent_color, is_active, created_at, updated_at`

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	ListAll(ctx context.Context) ([]models.Team, error)
	ListActive(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, description, city, mascot, logo_url,
			primary_color, secondary_color, accent_color, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.Description,
		team.City,
		team.Mascot,
		team.LogoURL,
		team.PrimaryColor,
		team.SecondaryColor,
		team.AccentColor,
		team.IsActive,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "teams_name_key" {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeamRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1`
	return scanTeamRow(r.db.QueryRowContext(ctx, query, name))
}

func (r *postgresTeamRepository) ListAll(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name ASC`
	return r.listTeams(ctx, query)
}

func (r *postgresTeamRepository) ListActive(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE is_active ORDER BY name ASC`
	return r.listTeams(ctx, query)
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			description = $2,
			city = $3,
			mascot = $4,
			logo_url = $5,
			primary_color = $6,
			secondary_color = $7,
			accent_color = $8,
			is_active = $9,
			updated_at = now()
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.Description,
		team.City,
		team.Mascot,
		team.LogoURL,
		team.PrimaryColor,
		team.SecondaryColor,
		team.AccentColor,
		team.IsActive,
		team.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "teams_name_key" {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := scanTeam(rows, &team); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}
	return teams, nil
}

func scanTeamRow(row *sql.Row) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.City,
		&team.Mascot,
		&team.LogoURL,
		&team.PrimaryColor,
		&team.SecondaryColor,
		&team.AccentColor,
		&team.IsActive,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return &team, nil
}

func scanTeam(rows *sql.Rows, team *models.Team) error {
	err := rows.Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.City,
		&team.Mascot,
		&team.LogoURL,
		&team.PrimaryColor,
		&team.SecondaryColor,
		&team.AccentColor,
		&team.IsActive,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to scan team: %w", err)
	}
	return nil
}
