// Package brackets derives knockout fixtures implied by a user's
// predictions on earlier rounds. The derived games are ephemeral: they are
// recomputed on every request and never persisted.
package brackets

import (
	"fmt"
	"time"

	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/predict"
)

const (
	quarterfinalCount = 4
	semifinalCount    = 2
)

// Placeholder kickoff offsets for derived fixtures, relative to the last
// game of the previous round.
const (
	firstSemiOffset  = 72 * time.Hour
	secondSemiOffset = 96 * time.Hour
	finalOffset      = 96 * time.Hour
)

// ResolveSemifinals derives both semifinal fixtures from the user's
// quarterfinal predictions. The quarters must be exactly four games sorted
// ascending by date; anything else is a caller bug and returns an error.
//
// Pairing follows the fixed bracket topology: semi 1 is winner(q0) vs
// winner(q2), semi 2 is winner(q1) vs winner(q3). If any quarter has no
// prediction yet, or its prediction is a draw, the bracket is undecided and
// the result is empty. The output is always 0 or 2 games, never 1.
func ResolveSemifinals(quarters []models.Game, predictions []models.GroupPrediction) ([]models.Game, error) {
	if len(quarters) != quarterfinalCount {
		return nil, fmt.Errorf("brackets: expected %d quarterfinals, got %d", quarterfinalCount, len(quarters))
	}

	winners := make([]*models.Team, quarterfinalCount)
	for i, q := range quarters {
		w := advancingTeam(q, predictions)
		if w == nil {
			return nil, nil
		}
		winners[i] = w
	}

	lastQuarter := quarters[quarterfinalCount-1]

	semis := []models.Game{
		syntheticGame(lastQuarter.ID+1, models.StageSemis, lastQuarter.Date.Add(firstSemiOffset), winners[0], winners[2]),
		syntheticGame(lastQuarter.ID+2, models.StageSemis, lastQuarter.Date.Add(secondSemiOffset), winners[1], winners[3]),
	}
	return semis, nil
}

// ResolveFinal derives the final from two semifinal fixtures, which may
// themselves be the synthetic output of ResolveSemifinals or real persisted
// games. The output is 0 or 1 games.
func ResolveFinal(semis []models.Game, predictions []models.GroupPrediction) ([]models.Game, error) {
	if len(semis) != semifinalCount {
		return nil, fmt.Errorf("brackets: expected %d semifinals, got %d", semifinalCount, len(semis))
	}

	home := advancingTeam(semis[0], predictions)
	away := advancingTeam(semis[1], predictions)
	if home == nil || away == nil {
		return nil, nil
	}

	lastSemi := semis[semifinalCount-1]
	final := syntheticGame(lastSemi.ID+1, models.StageFinal, lastSemi.Date.Add(finalOffset), home, away)
	return []models.Game{final}, nil
}

// advancingTeam resolves the predicted winner of a game to a Team, or nil
// when the advance is undecided: no prediction, a predicted draw, unknown
// participants, or a winner id matching neither participant.
func advancingTeam(game models.Game, predictions []models.GroupPrediction) *models.Team {
	prediction, ok := predict.Find(game, predictions)
	if !ok || prediction.Winner == nil {
		return nil
	}
	if game.HomeTeam == nil || game.AwayTeam == nil {
		return nil
	}

	if *prediction.Winner == game.HomeTeam.ID {
		return game.HomeTeam
	}
	if *prediction.Winner == game.AwayTeam.ID {
		return game.AwayTeam
	}
	return nil
}

func syntheticGame(id int, stage string, date time.Time, home, away *models.Team) models.Game {
	return models.Game{
		ID:       id,
		GroupID:  stage,
		Date:     date,
		Finished: false,
		HomeTeam: home,
		AwayTeam: away,
	}
}
