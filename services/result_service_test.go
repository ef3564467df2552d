package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponbac/rolf-time/live"
	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/repositories"
)

func (s *stubGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	for i := range s.games {
		if s.games[i].ID == id {
			copied := s.games[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrGameNotFound
}

func (s *stubGameRepo) UpdateResult(_ context.Context, id int, homeGoals, awayGoals int, winnerID *int) error {
	for i := range s.games {
		if s.games[i].ID == id {
			s.games[i].Finished = true
			s.games[i].HomeGoals = homeGoals
			s.games[i].AwayGoals = awayGoals
			s.games[i].WinnerID = winnerID
			return nil
		}
	}
	return repositories.ErrGameNotFound
}

type stubStandingRepo struct {
	repositories.StandingRepository

	groupID string
	teamIDs []int
}

func (s *stubStandingRepo) Upsert(_ context.Context, groupID string, orderedTeamIDs []int) error {
	s.groupID = groupID
	s.teamIDs = orderedTeamIDs
	return nil
}

type stubScoreService struct {
	ScoreService

	recomputes int
}

func (s *stubScoreService) RecomputeScores(_ context.Context) error {
	s.recomputes++
	return nil
}

func newTestResultService(games *stubGameRepo, teams *stubTeamRepo, standings *stubStandingRepo, scores *stubScoreService) ResultService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := live.NewHub(logger)
	go hub.Run()
	return NewResultService(games, teams, standings, scores, hub, logger)
}

func TestSetGameResultGroupStage(t *testing.T) {
	games := &stubGameRepo{games: []models.Game{{
		ID:       1,
		GroupID:  "A",
		Date:     time.Now(),
		HomeTeam: &models.Team{ID: 10},
		AwayTeam: &models.Team{ID: 11},
	}}}
	scores := &stubScoreService{}
	svc := newTestResultService(games, &stubTeamRepo{}, &stubStandingRepo{}, scores)

	game, err := svc.SetGameResult(context.Background(), 1, GameResultInput{
		HomeGoals: 2, AwayGoals: 1, Winner: intPtr(10),
	})
	require.NoError(t, err)

	assert.True(t, game.Finished)
	assert.Equal(t, 2, game.HomeGoals)
	require.NotNil(t, game.WinnerID)
	assert.Equal(t, 10, *game.WinnerID)
	assert.True(t, games.games[0].Finished)
	assert.Equal(t, 1, scores.recomputes)
}

func TestSetGameResultDrawRules(t *testing.T) {
	games := &stubGameRepo{games: []models.Game{
		{ID: 1, GroupID: "A", HomeTeam: &models.Team{ID: 10}, AwayTeam: &models.Team{ID: 11}},
		{ID: 2, GroupID: models.StageFinal, HomeTeam: &models.Team{ID: 10}, AwayTeam: &models.Team{ID: 11}},
	}}
	svc := newTestResultService(games, &stubTeamRepo{}, &stubStandingRepo{}, &stubScoreService{})

	// A group-stage draw is fine when the goals agree.
	_, err := svc.SetGameResult(context.Background(), 1, GameResultInput{HomeGoals: 1, AwayGoals: 1})
	require.NoError(t, err)

	// A draw with unequal goals is contradictory.
	_, err = svc.SetGameResult(context.Background(), 1, GameResultInput{HomeGoals: 2, AwayGoals: 1})
	assert.ErrorIs(t, err, ErrInvalidGameResult)

	// Knockout games cannot end in a draw.
	_, err = svc.SetGameResult(context.Background(), 2, GameResultInput{HomeGoals: 1, AwayGoals: 1})
	assert.ErrorIs(t, err, ErrKnockoutDrawInvalid)
}

func TestSetGameResultWinnerMustParticipate(t *testing.T) {
	games := &stubGameRepo{games: []models.Game{{
		ID: 1, GroupID: "A", HomeTeam: &models.Team{ID: 10}, AwayTeam: &models.Team{ID: 11},
	}}}
	svc := newTestResultService(games, &stubTeamRepo{}, &stubStandingRepo{}, &stubScoreService{})

	_, err := svc.SetGameResult(context.Background(), 1, GameResultInput{
		HomeGoals: 3, AwayGoals: 0, Winner: intPtr(99),
	})
	assert.ErrorIs(t, err, ErrInvalidGameResult)

	_, err = svc.SetGameResult(context.Background(), 1, GameResultInput{
		HomeGoals: -1, AwayGoals: 0, Winner: intPtr(10),
	})
	assert.ErrorIs(t, err, ErrInvalidGameResult)
}

func TestSetGroupStandingsValidation(t *testing.T) {
	teams := &stubTeamRepo{teams: []models.Team{
		{ID: 1, GroupID: "A"}, {ID: 2, GroupID: "A"}, {ID: 3, GroupID: "A"}, {ID: 4, GroupID: "A"},
	}}
	standings := &stubStandingRepo{}
	scores := &stubScoreService{}
	svc := newTestResultService(&stubGameRepo{}, teams, standings, scores)

	require.NoError(t, svc.SetGroupStandings(context.Background(), "a", []int{3, 1, 4, 2}))
	assert.Equal(t, "A", standings.groupID)
	assert.Equal(t, []int{3, 1, 4, 2}, standings.teamIDs)
	assert.Equal(t, 1, scores.recomputes)

	// Wrong length, duplicate entry, and foreign team are all rejected.
	assert.ErrorIs(t, svc.SetGroupStandings(context.Background(), "A", []int{1, 2, 3}), ErrInvalidStanding)
	assert.ErrorIs(t, svc.SetGroupStandings(context.Background(), "A", []int{1, 1, 2, 3}), ErrInvalidStanding)
	assert.ErrorIs(t, svc.SetGroupStandings(context.Background(), "A", []int{1, 2, 3, 99}), ErrInvalidStanding)

	assert.ErrorIs(t, svc.SetGroupStandings(context.Background(), "Z", []int{1}), ErrGroupNotFound)
}
