package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/predict"
	"github.com/ponbac/rolf-time/repositories"
	"github.com/ponbac/rolf-time/scoring"
)

type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Score  int    `json:"score"`
}

// GameScore annotates one finished, predicted game with the points the user
// earned on it.
type GameScore struct {
	GameID  int             `json:"gameId"`
	Points  int             `json:"points"`
	Outcome scoring.Outcome `json:"outcome"`
}

type ScoreService interface {
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	// ScoreBreakdown evaluates every finished game the user predicted, for
	// the per-game "+N" annotations in the prediction history view.
	ScoreBreakdown(ctx context.Context, userID string) ([]GameScore, error)
	// RecomputeScores recalculates and persists every user's authoritative
	// total. Called after a result or standing is entered, and periodically
	// by the reconciliation scheduler.
	RecomputeScores(ctx context.Context) error
}

type scoreService struct {
	userRepo     repositories.UserRepository
	gameRepo     repositories.GameRepository
	standingRepo repositories.StandingRepository
	logger       *slog.Logger
}

func NewScoreService(
	userRepo repositories.UserRepository,
	gameRepo repositories.GameRepository,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		userRepo:     userRepo,
		gameRepo:     gameRepo,
		standingRepo: standingRepo,
		logger:       logger,
	}
}

func (s *scoreService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, games, standings, err := s.loadScoringData(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, LeaderboardEntry{
			UserID: user.ID,
			Name:   user.Name,
			Avatar: user.Avatar,
			Score:  scoring.UserScore(games, standings, user.Predictions),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *scoreService) ScoreBreakdown(ctx context.Context, userID string) ([]GameScore, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	breakdown := make([]GameScore, 0)
	for _, game := range games {
		if !game.Finished {
			continue
		}
		prediction, ok := predict.Find(game, user.Predictions)
		if !ok {
			continue
		}
		result, err := scoring.Evaluate(game, prediction)
		if err != nil {
			continue
		}
		breakdown = append(breakdown, GameScore{
			GameID:  game.ID,
			Points:  result.Points,
			Outcome: result.Outcome,
		})
	}
	return breakdown, nil
}

func (s *scoreService) RecomputeScores(ctx context.Context) error {
	users, games, standings, err := s.loadScoringData(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		score := scoring.UserScore(games, standings, user.Predictions)
		if score == user.Score {
			continue
		}
		if err := s.userRepo.UpdateScore(ctx, user.ID, score); err != nil {
			return fmt.Errorf("failed to update score for user %s: %w", user.ID, err)
		}
		s.logger.Info("user score updated",
			slog.String("user_id", user.ID),
			slog.Int("old_score", user.Score),
			slog.Int("new_score", score),
		)
	}
	return nil
}

// loadScoringData fetches the three independent inputs of a scoring run
// concurrently.
func (s *scoreService) loadScoringData(ctx context.Context) ([]models.User, []models.Game, []models.GroupStanding, error) {
	var (
		users     []models.User
		games     []models.Game
		standings []models.GroupStanding
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if users, err = s.userRepo.List(gCtx); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if games, err = s.gameRepo.List(gCtx); err != nil {
			return fmt.Errorf("failed to list games: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if standings, err = s.standingRepo.List(gCtx); err != nil {
			return fmt.Errorf("failed to list standings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return users, games, standings, nil
}
