package brackets

import (
	"testing"
	"time"

	"github.com/ponbac/rolf-time/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

var kickoff = time.Date(2022, time.July, 20, 21, 0, 0, 0, time.UTC)

// fourQuarters builds quarterfinals with team ids 1&2, 3&4, 5&6, 7&8 and
// game ids 101..104, sorted by date.
func fourQuarters() []models.Game {
	games := make([]models.Game, 4)
	for i := 0; i < 4; i++ {
		home := models.Team{ID: i*2 + 1, Name: "Home"}
		away := models.Team{ID: i*2 + 2, Name: "Away"}
		games[i] = models.Game{
			ID:       101 + i,
			GroupID:  models.StageQuarters,
			Date:     kickoff.Add(time.Duration(i) * 24 * time.Hour),
			HomeTeam: &home,
			AwayTeam: &away,
		}
	}
	return games
}

// quarterPredictions picks the given winner id for each quarter in order.
func quarterPredictions(winners ...*int) []models.GroupPrediction {
	games := make([]models.GamePrediction, len(winners))
	for i, w := range winners {
		games[i] = models.GamePrediction{ID: 101 + i, HomeGoals: 1, AwayGoals: 0, Winner: w}
	}
	return []models.GroupPrediction{{GroupID: models.StageQuarters, Games: games}}
}

func TestResolveSemifinalsPairing(t *testing.T) {
	quarters := fourQuarters()
	// All home teams win: 1, 3, 5, 7.
	predictions := quarterPredictions(intPtr(1), intPtr(3), intPtr(5), intPtr(7))

	semis, err := ResolveSemifinals(quarters, predictions)
	require.NoError(t, err)
	require.Len(t, semis, 2)

	// Semi 1: winner(q0) vs winner(q2); semi 2: winner(q1) vs winner(q3).
	assert.Equal(t, 1, semis[0].HomeTeam.ID)
	assert.Equal(t, 5, semis[0].AwayTeam.ID)
	assert.Equal(t, 3, semis[1].HomeTeam.ID)
	assert.Equal(t, 7, semis[1].AwayTeam.ID)

	// Synthetic ids follow the last quarterfinal.
	assert.Equal(t, 105, semis[0].ID)
	assert.Equal(t, 106, semis[1].ID)

	for _, semi := range semis {
		assert.Equal(t, models.StageSemis, semi.GroupID)
		assert.False(t, semi.Finished)
		assert.Nil(t, semi.WinnerID)
		assert.Zero(t, semi.HomeGoals)
		assert.Zero(t, semi.AwayGoals)
		assert.True(t, semi.Date.After(quarters[3].Date))
	}
}

func TestResolveSemifinalsAwayWinners(t *testing.T) {
	quarters := fourQuarters()
	predictions := quarterPredictions(intPtr(2), intPtr(4), intPtr(6), intPtr(8))

	semis, err := ResolveSemifinals(quarters, predictions)
	require.NoError(t, err)
	require.Len(t, semis, 2)
	assert.Equal(t, 2, semis[0].HomeTeam.ID)
	assert.Equal(t, 6, semis[0].AwayTeam.ID)
	assert.Equal(t, 4, semis[1].HomeTeam.ID)
	assert.Equal(t, 8, semis[1].AwayTeam.ID)
}

func TestResolveSemifinalsUndecided(t *testing.T) {
	quarters := fourQuarters()

	tests := []struct {
		name        string
		predictions []models.GroupPrediction
	}{
		{"no predictions at all", nil},
		{"one quarter missing", quarterPredictions(intPtr(1), intPtr(3), intPtr(5))},
		{"one predicted draw", quarterPredictions(intPtr(1), nil, intPtr(5), intPtr(7))},
		{"winner matches neither participant", quarterPredictions(intPtr(1), intPtr(3), intPtr(99), intPtr(7))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			semis, err := ResolveSemifinals(quarters, tt.predictions)
			require.NoError(t, err)
			assert.Empty(t, semis, "an undecided bracket yields no semifinals")
		})
	}
}

func TestResolveSemifinalsInputArity(t *testing.T) {
	_, err := ResolveSemifinals(fourQuarters()[:3], nil)
	assert.Error(t, err)

	_, err = ResolveSemifinals(append(fourQuarters(), models.Game{}), nil)
	assert.Error(t, err)
}

func TestResolveFinalInputArity(t *testing.T) {
	_, err := ResolveFinal([]models.Game{{}}, nil)
	assert.Error(t, err)
}

func TestResolveFinalFromSyntheticSemis(t *testing.T) {
	quarters := fourQuarters()
	predictions := quarterPredictions(intPtr(1), intPtr(3), intPtr(5), intPtr(7))

	semis, err := ResolveSemifinals(quarters, predictions)
	require.NoError(t, err)
	require.Len(t, semis, 2)

	// Predict the home side of each derived semifinal: q0's and q1's winners.
	semiPicks := models.GroupPrediction{
		GroupID: models.StageSemis,
		Games: []models.GamePrediction{
			{ID: semis[0].ID, HomeGoals: 2, AwayGoals: 0, Winner: intPtr(semis[0].HomeTeam.ID)},
			{ID: semis[1].ID, HomeGoals: 1, AwayGoals: 0, Winner: intPtr(semis[1].HomeTeam.ID)},
		},
	}
	predictions = append(predictions, semiPicks)

	final, err := ResolveFinal(semis, predictions)
	require.NoError(t, err)
	require.Len(t, final, 1)

	assert.Equal(t, models.StageFinal, final[0].GroupID)
	assert.Equal(t, semis[1].ID+1, final[0].ID)
	assert.Equal(t, 1, final[0].HomeTeam.ID, "final home side is the first semi's winner (q0 home)")
	assert.Equal(t, 3, final[0].AwayTeam.ID, "final away side is the second semi's winner (q1 home)")
}

func TestResolveFinalUndecidedSemi(t *testing.T) {
	quarters := fourQuarters()
	predictions := quarterPredictions(intPtr(1), intPtr(3), intPtr(5), intPtr(7))
	semis, err := ResolveSemifinals(quarters, predictions)
	require.NoError(t, err)

	// Only the first semifinal is predicted.
	predictions = append(predictions, models.GroupPrediction{
		GroupID: models.StageSemis,
		Games: []models.GamePrediction{
			{ID: semis[0].ID, Winner: intPtr(semis[0].HomeTeam.ID)},
		},
	})

	final, err := ResolveFinal(semis, predictions)
	require.NoError(t, err)
	assert.Empty(t, final)
}
