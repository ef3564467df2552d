package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponbac/rolf-time/models"
)

func (s *stubUserRepo) List(_ context.Context) ([]models.User, error) {
	return s.users, nil
}

func (s *stubUserRepo) UpdateScore(_ context.Context, id string, score int) error {
	if s.scores == nil {
		s.scores = make(map[string]int)
	}
	s.scores[id] = score
	return nil
}

func (s *stubStandingRepo) List(_ context.Context) ([]models.GroupStanding, error) {
	if s.groupID == "" {
		return nil, nil
	}
	return []models.GroupStanding{{GroupID: s.groupID, Results: s.teamIDs}}, nil
}

func newTestScoreService(users *stubUserRepo, games *stubGameRepo, standings *stubStandingRepo) ScoreService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScoreService(users, games, standings, logger)
}

func finishedGroupGame(id int, home, away int, winner *int) models.Game {
	return models.Game{
		ID:        id,
		GroupID:   "A",
		Date:      time.Date(2022, 7, 9, 12, 0, 0, 0, time.UTC),
		Finished:  true,
		HomeGoals: home,
		AwayGoals: away,
		WinnerID:  winner,
	}
}

func TestLeaderboardOrdersByScoreThenName(t *testing.T) {
	exact := []models.GroupPrediction{{
		GroupID: "A",
		Games:   []models.GamePrediction{{ID: 1, HomeGoals: 2, AwayGoals: 0, Winner: intPtr(10)}},
	}}
	winnerOnly := []models.GroupPrediction{{
		GroupID: "A",
		Games:   []models.GamePrediction{{ID: 1, HomeGoals: 1, AwayGoals: 0, Winner: intPtr(10)}},
	}}

	users := &stubUserRepo{users: []models.User{
		{ID: "u1", Name: "Beata", Predictions: winnerOnly},
		{ID: "u2", Name: "Anna", Predictions: exact},
		{ID: "u3", Name: "Adam", Predictions: winnerOnly},
	}}
	games := &stubGameRepo{games: []models.Game{finishedGroupGame(1, 2, 0, intPtr(10))}}
	svc := newTestScoreService(users, games, &stubStandingRepo{})

	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, 4, entries[0].Score)
	// Tied players sort by name.
	assert.Equal(t, "Adam", entries[1].Name)
	assert.Equal(t, "Beata", entries[2].Name)
	assert.Equal(t, 3, entries[1].Score)
}

func TestRecomputeScoresPersistsOnlyChanges(t *testing.T) {
	exact := []models.GroupPrediction{{
		GroupID: "A",
		Games:   []models.GamePrediction{{ID: 1, HomeGoals: 2, AwayGoals: 0, Winner: intPtr(10)}},
	}}

	users := &stubUserRepo{users: []models.User{
		{ID: "u1", Name: "Anna", Score: 0, Predictions: exact},
		{ID: "u2", Name: "Bodil", Score: 0},
	}}
	games := &stubGameRepo{games: []models.Game{finishedGroupGame(1, 2, 0, intPtr(10))}}
	svc := newTestScoreService(users, games, &stubStandingRepo{})

	require.NoError(t, svc.RecomputeScores(context.Background()))

	assert.Equal(t, 4, users.scores["u1"])
	_, touched := users.scores["u2"]
	assert.False(t, touched, "an unchanged score must not be rewritten")
}
