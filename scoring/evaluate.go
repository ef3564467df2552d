// Package scoring compares predictions against finalized results and
// computes the points a player is awarded.
package scoring

import (
	"fmt"

	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/predict"
)

// Outcome classifies a prediction against the final result, for display
// color-coding among other things.
type Outcome string

const (
	OutcomeExact      Outcome = "exact"
	OutcomeWinnerOnly Outcome = "winner_only"
	OutcomeWrong      Outcome = "wrong"
)

type Result struct {
	Points  int     `json:"points"`
	Outcome Outcome `json:"outcome"`
}

// Base points per stage, awarded for a correct winner.
const (
	groupWinnerPoints   = 3
	quarterWinnerPoints = 6
	semiWinnerPoints    = 8
	finalWinnerPoints   = 10
)

// Bonus for additionally nailing the exact score.
const (
	groupScoreBonus    = 1
	knockoutScoreBonus = 3
)

// Points per correctly placed team in a predicted group standing.
const standingSlotPoints = 3

// standingSlots is how many placings of a group standing are scored.
const standingSlots = 4

// Evaluate scores a single prediction against a finished game. Calling it
// on an unfinished game or with a prediction for a different game is a
// caller bug and returns an error.
func Evaluate(game models.Game, prediction models.GamePrediction) (Result, error) {
	if !game.Finished {
		return Result{}, fmt.Errorf("scoring: game %d is not finished", game.ID)
	}
	if prediction.ID != game.ID {
		return Result{}, fmt.Errorf("scoring: prediction for game %d evaluated against game %d", prediction.ID, game.ID)
	}

	correctWinner := winnerEqual(prediction.Winner, game.WinnerID)
	correctScore := prediction.HomeGoals == game.HomeGoals && prediction.AwayGoals == game.AwayGoals

	if !correctWinner {
		return Result{Points: 0, Outcome: OutcomeWrong}, nil
	}

	points := basePoints(game.GroupID)
	outcome := OutcomeWinnerOnly
	if correctScore {
		points += scoreBonus(game.GroupID)
		outcome = OutcomeExact
	}
	return Result{Points: points, Outcome: outcome}, nil
}

// StandingPoints scores a predicted group standing against the actual final
// ordering. Each of the first four placings is worth three points when the
// predicted team sits in exactly that slot; there is no partial credit for
// the right team in the wrong slot.
func StandingPoints(predicted []models.Team, actual []int) int {
	points := 0
	for i := 0; i < standingSlots && i < len(predicted) && i < len(actual); i++ {
		if predicted[i].ID == actual[i] {
			points += standingSlotPoints
		}
	}
	return points
}

// UserScore computes a player's display total: the sum of per-game points
// over all finished games the player predicted, plus standing points for
// every group with an entered final ordering. Predictions referencing games
// or groups absent from the schedule are skipped.
func UserScore(games []models.Game, standings []models.GroupStanding, predictions []models.GroupPrediction) int {
	total := 0

	for _, game := range games {
		if !game.Finished {
			continue
		}
		prediction, ok := predict.Find(game, predictions)
		if !ok {
			continue
		}
		result, err := Evaluate(game, prediction)
		if err != nil {
			continue
		}
		total += result.Points
	}

	for _, standing := range standings {
		for i := range predictions {
			if predictions[i].GroupID == standing.GroupID {
				total += StandingPoints(predictions[i].Result, standing.Results)
				break
			}
		}
	}

	return total
}

func winnerEqual(predicted, actual *int) bool {
	if predicted == nil || actual == nil {
		// nil means draw on both sides, so a double nil is a correct call.
		return predicted == nil && actual == nil
	}
	return *predicted == *actual
}

func basePoints(stage string) int {
	switch stage {
	case models.StageQuarters:
		return quarterWinnerPoints
	case models.StageSemis:
		return semiWinnerPoints
	case models.StageFinal:
		return finalWinnerPoints
	default:
		return groupWinnerPoints
	}
}

func scoreBonus(stage string) int {
	if len(stage) > 1 {
		return knockoutScoreBonus
	}
	return groupScoreBonus
}
