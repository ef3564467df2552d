package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/repositories"
)

// gameDuration is the single authoritative cutoff for treating a game as
// over when picking what is "upcoming": 90 minutes plus stoppage, extra
// time and a margin.
const gameDuration = 115 * time.Minute

type ScheduleService interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	GetGame(ctx context.Context, id int) (*models.Game, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	// UpcomingGames returns games that have not finished and have not run
	// past the authoritative game duration, soonest first.
	UpcomingGames(ctx context.Context, now time.Time) ([]models.Game, error)
	ListStandings(ctx context.Context) ([]models.GroupStanding, error)
}

type scheduleService struct {
	gameRepo     repositories.GameRepository
	teamRepo     repositories.TeamRepository
	standingRepo repositories.StandingRepository
}

func NewScheduleService(gameRepo repositories.GameRepository, teamRepo repositories.TeamRepository, standingRepo repositories.StandingRepository) ScheduleService {
	return &scheduleService{
		gameRepo:     gameRepo,
		teamRepo:     teamRepo,
		standingRepo: standingRepo,
	}
}

func (s *scheduleService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *scheduleService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return game, nil
}

// ListGroups assembles every group present in the teams table, ordered by
// group letter.
func (s *scheduleService) ListGroups(ctx context.Context) ([]models.Group, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	byGroup := make(map[string]*models.Group)
	order := make([]string, 0)
	for _, team := range teams {
		group, ok := byGroup[team.GroupID]
		if !ok {
			group = &models.Group{ID: team.GroupID}
			byGroup[team.GroupID] = group
			order = append(order, team.GroupID)
		}
		group.Teams = append(group.Teams, team)
	}
	sort.Strings(order)

	groups := make([]models.Group, 0, len(order))
	for _, id := range order {
		group := byGroup[id]
		games, err := s.gameRepo.ListByGroup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list games for group %s: %w", id, err)
		}
		group.Games = games
		groups = append(groups, *group)
	}
	return groups, nil
}

func (s *scheduleService) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	id = strings.ToUpper(id)

	teams, err := s.teamRepo.ListByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for group %s: %w", id, err)
	}
	if len(teams) == 0 {
		return nil, ErrGroupNotFound
	}

	games, err := s.gameRepo.ListByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for group %s: %w", id, err)
	}

	return &models.Group{ID: id, Teams: teams, Games: games}, nil
}

func (s *scheduleService) UpcomingGames(ctx context.Context, now time.Time) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	upcoming := make([]models.Game, 0)
	for _, game := range games {
		if game.Finished {
			continue
		}
		if now.After(game.Date.Add(gameDuration)) {
			continue
		}
		upcoming = append(upcoming, game)
	}
	return upcoming, nil
}

func (s *scheduleService) ListStandings(ctx context.Context) ([]models.GroupStanding, error) {
	standings, err := s.standingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list group standings: %w", err)
	}
	return standings, nil
}
