package scoring

import (
	"testing"

	"github.com/ponbac/rolf-time/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// finishedGame is a 2-1 home win unless overridden.
func finishedGame(stage string) models.Game {
	return models.Game{
		ID:        7,
		GroupID:   stage,
		Finished:  true,
		HomeGoals: 2,
		AwayGoals: 1,
		WinnerID:  intPtr(11),
		HomeTeam:  &models.Team{ID: 11},
		AwayTeam:  &models.Team{ID: 12},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		stage      string
		prediction models.GamePrediction
		points     int
		outcome    Outcome
	}{
		{
			name:       "group game exact score",
			stage:      "A",
			prediction: models.GamePrediction{ID: 7, HomeGoals: 2, AwayGoals: 1, Winner: intPtr(11)},
			points:     4, // 3 base + 1 bonus
			outcome:    OutcomeExact,
		},
		{
			name:       "group game winner only",
			stage:      "A",
			prediction: models.GamePrediction{ID: 7, HomeGoals: 1, AwayGoals: 0, Winner: intPtr(11)},
			points:     3,
			outcome:    OutcomeWinnerOnly,
		},
		{
			name:       "group game wrong winner",
			stage:      "A",
			prediction: models.GamePrediction{ID: 7, HomeGoals: 1, AwayGoals: 2, Winner: intPtr(12)},
			points:     0,
			outcome:    OutcomeWrong,
		},
		{
			name:       "correct score but wrong winner scores nothing",
			stage:      "A",
			prediction: models.GamePrediction{ID: 7, HomeGoals: 2, AwayGoals: 1, Winner: intPtr(12)},
			points:     0,
			outcome:    OutcomeWrong,
		},
		{
			name:       "quarterfinal winner only",
			stage:      models.StageQuarters,
			prediction: models.GamePrediction{ID: 7, HomeGoals: 3, AwayGoals: 0, Winner: intPtr(11)},
			points:     6,
			outcome:    OutcomeWinnerOnly,
		},
		{
			name:       "quarterfinal exact",
			stage:      models.StageQuarters,
			prediction: models.GamePrediction{ID: 7, HomeGoals: 2, AwayGoals: 1, Winner: intPtr(11)},
			points:     9, // 6 base + 3 knockout bonus
			outcome:    OutcomeExact,
		},
		{
			name:       "semifinal winner only",
			stage:      models.StageSemis,
			prediction: models.GamePrediction{ID: 7, HomeGoals: 1, AwayGoals: 0, Winner: intPtr(11)},
			points:     8,
			outcome:    OutcomeWinnerOnly,
		},
		{
			name:       "final exact",
			stage:      models.StageFinal,
			prediction: models.GamePrediction{ID: 7, HomeGoals: 2, AwayGoals: 1, Winner: intPtr(11)},
			points:     13, // 10 base + 3 knockout bonus
			outcome:    OutcomeExact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(finishedGame(tt.stage), tt.prediction)
			require.NoError(t, err)
			assert.Equal(t, tt.points, result.Points)
			assert.Equal(t, tt.outcome, result.Outcome)
		})
	}
}

func TestEvaluateDraw(t *testing.T) {
	game := models.Game{ID: 3, GroupID: "B", Finished: true, HomeGoals: 1, AwayGoals: 1, WinnerID: nil}

	result, err := Evaluate(game, models.GamePrediction{ID: 3, HomeGoals: 1, AwayGoals: 1, Winner: nil})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Points, "a called draw with the exact score earns full group points")
	assert.Equal(t, OutcomeExact, result.Outcome)

	result, err = Evaluate(game, models.GamePrediction{ID: 3, HomeGoals: 0, AwayGoals: 0, Winner: nil})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Points)
	assert.Equal(t, OutcomeWinnerOnly, result.Outcome)

	result, err = Evaluate(game, models.GamePrediction{ID: 3, HomeGoals: 1, AwayGoals: 1, Winner: intPtr(11)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, result.Outcome, "picking a winner in a drawn game is wrong")
}

func TestEvaluateErrors(t *testing.T) {
	unfinished := models.Game{ID: 1, GroupID: "A"}
	_, err := Evaluate(unfinished, models.GamePrediction{ID: 1})
	assert.Error(t, err)

	_, err = Evaluate(finishedGame("A"), models.GamePrediction{ID: 99})
	assert.Error(t, err)
}

func TestStandingPoints(t *testing.T) {
	predicted := []models.Team{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	tests := []struct {
		name   string
		actual []int
		points int
	}{
		{"all four placings correct", []int{1, 2, 3, 4}, 12},
		{"two placings correct", []int{1, 3, 2, 4}, 6},
		{"right teams wrong slots", []int{4, 3, 2, 1}, 0},
		{"no overlap", []int{5, 6, 7, 8}, 0},
		{"shorter actual ordering", []int{1, 2}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.points, StandingPoints(predicted, tt.actual))
		})
	}
}

func TestUserScore(t *testing.T) {
	games := []models.Game{
		{ID: 1, GroupID: "A", Finished: true, HomeGoals: 2, AwayGoals: 1, WinnerID: intPtr(1)},
		{ID: 2, GroupID: "A", Finished: false},
		{ID: 3, GroupID: models.StageFinal, Finished: true, HomeGoals: 1, AwayGoals: 0, WinnerID: intPtr(3)},
	}
	standings := []models.GroupStanding{
		{GroupID: "A", Results: []int{1, 2, 3, 4}},
	}
	predictions := []models.GroupPrediction{
		{
			GroupID: "A",
			Games: []models.GamePrediction{
				{ID: 1, HomeGoals: 2, AwayGoals: 1, Winner: intPtr(1)}, // exact: 4
				{ID: 2, HomeGoals: 1, AwayGoals: 0, Winner: intPtr(9)}, // unfinished: 0
			},
			Result: []models.Team{{ID: 1}, {ID: 4}, {ID: 3}, {ID: 2}}, // slots 1 and 3: 6
		},
		{
			GroupID: models.StageFinal,
			Games: []models.GamePrediction{
				{ID: 3, HomeGoals: 2, AwayGoals: 0, Winner: intPtr(3)}, // winner only: 10
			},
		},
		// Dangling group reference, silently skipped.
		{GroupID: "Z", Games: []models.GamePrediction{{ID: 77, Winner: intPtr(1)}}},
	}

	assert.Equal(t, 20, UserScore(games, standings, predictions))
}
