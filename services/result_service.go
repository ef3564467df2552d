package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ponbac/rolf-time/live"
	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/repositories"
)

type GameResultInput struct {
	HomeGoals int  `json:"homeGoals"`
	AwayGoals int  `json:"awayGoals"`
	Winner    *int `json:"winner"`
}

// ResultService is the administrative entry point for actual tournament
// outcomes: finalized games and final group standings. Both trigger a score
// recompute and a live broadcast.
type ResultService interface {
	SetGameResult(ctx context.Context, gameID int, input GameResultInput) (*models.Game, error)
	SetGroupStandings(ctx context.Context, groupID string, orderedTeamIDs []int) error
}

type resultService struct {
	gameRepo     repositories.GameRepository
	teamRepo     repositories.TeamRepository
	standingRepo repositories.StandingRepository
	scoreService ScoreService
	hub          *live.Hub
	logger       *slog.Logger
}

func NewResultService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	scoreService ScoreService,
	hub *live.Hub,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		gameRepo:     gameRepo,
		teamRepo:     teamRepo,
		standingRepo: standingRepo,
		scoreService: scoreService,
		hub:          hub,
		logger:       logger,
	}
}

func (s *resultService) SetGameResult(ctx context.Context, gameID int, input GameResultInput) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return nil, ErrInvalidGameResult
	}
	if err := validateWinner(game, input); err != nil {
		return nil, err
	}

	if err := s.gameRepo.UpdateResult(ctx, gameID, input.HomeGoals, input.AwayGoals, input.Winner); err != nil {
		return nil, fmt.Errorf("failed to persist result for game %d: %w", gameID, err)
	}

	game.Finished = true
	game.HomeGoals = input.HomeGoals
	game.AwayGoals = input.AwayGoals
	game.WinnerID = input.Winner

	if err := s.scoreService.RecomputeScores(ctx); err != nil {
		// The result is saved; scores will be reconciled by the scheduler.
		s.logger.Error("score recompute after result failed",
			slog.Int("game_id", gameID), slog.Any("error", err))
	}

	s.hub.BroadcastEvent(live.EventGameResult, game)
	return game, nil
}

func (s *resultService) SetGroupStandings(ctx context.Context, groupID string, orderedTeamIDs []int) error {
	groupID = strings.ToUpper(groupID)

	teams, err := s.teamRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list teams for group %s: %w", groupID, err)
	}
	if len(teams) == 0 {
		return ErrGroupNotFound
	}

	members := make(map[int]bool, len(teams))
	for _, team := range teams {
		members[team.ID] = true
	}
	if len(orderedTeamIDs) != len(teams) {
		return ErrInvalidStanding
	}
	seen := make(map[int]bool, len(orderedTeamIDs))
	for _, id := range orderedTeamIDs {
		if !members[id] || seen[id] {
			return ErrInvalidStanding
		}
		seen[id] = true
	}

	if err := s.standingRepo.Upsert(ctx, groupID, orderedTeamIDs); err != nil {
		return fmt.Errorf("failed to persist standings for group %s: %w", groupID, err)
	}

	if err := s.scoreService.RecomputeScores(ctx); err != nil {
		s.logger.Error("score recompute after standings failed",
			slog.String("group_id", groupID), slog.Any("error", err))
	}

	s.hub.BroadcastEvent(live.EventStandings, models.GroupStanding{GroupID: groupID, Results: orderedTeamIDs})
	return nil
}

// validateWinner checks that the entered winner is one of the game's
// participants, or a draw (nil) on a group-stage game only.
func validateWinner(game *models.Game, input GameResultInput) error {
	if input.Winner == nil {
		if !game.IsGroupStage() {
			return ErrKnockoutDrawInvalid
		}
		if input.HomeGoals != input.AwayGoals {
			return ErrInvalidGameResult
		}
		return nil
	}

	if game.HomeTeam != nil && *input.Winner == game.HomeTeam.ID {
		return nil
	}
	if game.AwayTeam != nil && *input.Winner == game.AwayTeam.ID {
		return nil
	}
	return ErrInvalidGameResult
}
