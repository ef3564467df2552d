package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/ponbac/rolf-time/models"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameTeamInvalid = errors.New("game team conflict or invalid")
)

type GameRepository interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Game, error)
	// UpdateResult finalizes a game: goals, winner (nil for a draw) and the
	// finished flag in one statement.
	UpdateResult(ctx context.Context, id int, homeGoals, awayGoals int, winnerID *int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameSelect = `
	SELECT
		g.id, g.finished, g.home_goals, g.away_goals, g.date, g.group_id, g.winner_id,
		g.home_team_id, g.away_team_id,
		ht.id, ht.name, ht.flag_code, ht.group_id, ht.points,
		at.id, at.name, at.flag_code, at.group_id, at.points
	FROM games g
	LEFT JOIN teams ht ON g.home_team_id = ht.id
	LEFT JOIN teams at ON g.away_team_id = at.id`

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx, gameSelect+` WHERE g.id = $1`, id)
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *postgresGameRepository) List(ctx context.Context) ([]models.Game, error) {
	return r.listGames(ctx, gameSelect+` ORDER BY g.date ASC, g.id ASC`)
}

func (r *postgresGameRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Game, error) {
	return r.listGames(ctx, gameSelect+` WHERE g.group_id = $1 ORDER BY g.date ASC, g.id ASC`, groupID)
}

func (r *postgresGameRepository) UpdateResult(ctx context.Context, id int, homeGoals, awayGoals int, winnerID *int) error {
	query := `
		UPDATE games SET
			home_goals = $1,
			away_goals = $2,
			winner_id = $3,
			finished = TRUE
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, homeGoals, awayGoals, winnerID, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrGameTeamInvalid
		}
		return fmt.Errorf("failed to update game result: %w", err)
	}

	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) listGames(ctx context.Context, query string, args ...interface{}) ([]models.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

func scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var game models.Game

	var homeID, homePoints, awayID, awayPoints sql.NullInt64
	var homeName, homeFlag, homeGroup sql.NullString
	var awayName, awayFlag, awayGroup sql.NullString

	err := row.Scan(
		&game.ID,
		&game.Finished,
		&game.HomeGoals,
		&game.AwayGoals,
		&game.Date,
		&game.GroupID,
		&game.WinnerID,
		&game.HomeTeamID,
		&game.AwayTeamID,
		&homeID, &homeName, &homeFlag, &homeGroup, &homePoints,
		&awayID, &awayName, &awayFlag, &awayGroup, &awayPoints,
	)
	if err != nil {
		return nil, err
	}

	if homeID.Valid {
		game.HomeTeam = &models.Team{
			ID:       int(homeID.Int64),
			Name:     homeName.String,
			FlagCode: homeFlag.String,
			GroupID:  homeGroup.String,
			Points:   int(homePoints.Int64),
		}
	}
	if awayID.Valid {
		game.AwayTeam = &models.Team{
			ID:       int(awayID.Int64),
			Name:     awayName.String,
			FlagCode: awayFlag.String,
			GroupID:  awayGroup.String,
			Points:   int(awayPoints.Int64),
		}
	}

	return &game, nil
}
