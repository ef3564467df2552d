package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/ponbac/rolf-time/models"
)

var ErrStandingTeamInvalid = errors.New("standing team conflict or invalid")

type StandingRepository interface {
	// Upsert replaces the full final ordering for one group.
	Upsert(ctx context.Context, groupID string, orderedTeamIDs []int) error
	List(ctx context.Context) ([]models.GroupStanding, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) Upsert(ctx context.Context, groupID string, orderedTeamIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin standings transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_standings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear standings for group %s: %w", groupID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO group_standings (group_id, placing, team_id)
		VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("failed to prepare standings insert: %w", err)
	}
	defer stmt.Close()

	for placing, teamID := range orderedTeamIDs {
		if _, err := stmt.ExecContext(ctx, groupID, placing+1, teamID); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23503" {
				return ErrStandingTeamInvalid
			}
			return fmt.Errorf("failed to insert standing for group %s: %w", groupID, err)
		}
	}

	return tx.Commit()
}

func (r *postgresStandingRepository) List(ctx context.Context) ([]models.GroupStanding, error) {
	query := `
		SELECT group_id, team_id
		FROM group_standings
		ORDER BY group_id ASC, placing ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.GroupStanding, 0)
	for rows.Next() {
		var groupID string
		var teamID int
		if err := rows.Scan(&groupID, &teamID); err != nil {
			return nil, err
		}

		if n := len(standings); n > 0 && standings[n-1].GroupID == groupID {
			standings[n-1].Results = append(standings[n-1].Results, teamID)
		} else {
			standings = append(standings, models.GroupStanding{GroupID: groupID, Results: []int{teamID}})
		}
	}
	return standings, rows.Err()
}
