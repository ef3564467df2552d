package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ponbac/rolf-time/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, flag_code, group_id, points
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.FlagCode,
		&team.GroupID,
		&team.Points,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Team, error) {
	query := `
		SELECT id, name, flag_code, group_id, points
		FROM teams
		WHERE group_id = $1
		ORDER BY points DESC, name ASC`
	return r.listTeams(ctx, query, groupID)
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT id, name, flag_code, group_id, points
		FROM teams
		ORDER BY group_id ASC, points DESC, name ASC`
	return r.listTeams(ctx, query)
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.FlagCode, &team.GroupID, &team.Points); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
