package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ponbac/rolf-time/brackets"
	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/predict"
	"github.com/ponbac/rolf-time/repositories"
)

// Deadlines gate prediction writes: group-stage entries lock when the
// tournament starts, knockout entries when the playoffs do.
type Deadlines struct {
	Group   time.Time
	Playoff time.Time
}

// Bracket is the knockout view for one user: real quarterfinals plus the
// semifinals and final implied by the user's own predictions. Semis and
// Final are empty while the bracket is undecided.
type Bracket struct {
	Quarters []models.Game `json:"quarters"`
	Semis    []models.Game `json:"semis"`
	Final    []models.Game `json:"final"`
}

type PredictionService interface {
	GetPredictions(ctx context.Context, userID string) ([]models.GroupPrediction, error)
	// SavePredictions replaces the user's whole prediction set, last write
	// wins. Entries referencing games absent from the schedule are dropped.
	SavePredictions(ctx context.Context, userID string, predictions []models.GroupPrediction) error
	PredictGame(ctx context.Context, userID, groupID string, prediction models.GamePrediction) error
	PredictGroup(ctx context.Context, userID, groupID string, orderedTeams []models.Team) error
	Bracket(ctx context.Context, userID string) (*Bracket, error)
}

type predictionService struct {
	userRepo  repositories.UserRepository
	gameRepo  repositories.GameRepository
	deadlines Deadlines

	now func() time.Time
}

func NewPredictionService(userRepo repositories.UserRepository, gameRepo repositories.GameRepository, deadlines Deadlines) PredictionService {
	return &predictionService{
		userRepo:  userRepo,
		gameRepo:  gameRepo,
		deadlines: deadlines,
		now:       time.Now,
	}
}

func (s *predictionService) GetPredictions(ctx context.Context, userID string) ([]models.GroupPrediction, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	if user.Predictions == nil {
		return []models.GroupPrediction{}, nil
	}
	return user.Predictions, nil
}

func (s *predictionService) SavePredictions(ctx context.Context, userID string, predictions []models.GroupPrediction) error {
	set := predict.NewSet(nil)
	for _, group := range predictions {
		if group.GroupID == "" {
			continue
		}
		if len(group.Result) > 0 {
			set.UpsertGroupResult(group.GroupID, group.Result)
		}
		for _, gp := range group.Games {
			set.UpsertGamePrediction(group.GroupID, gp)
		}
	}

	rebuilt := set.All()
	models.NormalizeLegacyWinners(rebuilt)

	cleaned, err := s.validateSet(ctx, rebuilt)
	if err != nil {
		return err
	}

	if err := s.enforceDeadlines(ctx, userID, cleaned); err != nil {
		return err
	}

	if err := s.userRepo.UpdatePredictions(ctx, userID, cleaned); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to persist predictions for user %s: %w", userID, err)
	}
	return nil
}

func (s *predictionService) PredictGame(ctx context.Context, userID, groupID string, prediction models.GamePrediction) error {
	if err := s.checkDeadline(groupID); err != nil {
		return err
	}

	current, err := s.GetPredictions(ctx, userID)
	if err != nil {
		return err
	}

	set := predict.NewSet(current)
	set.UpsertGamePrediction(groupID, prediction)
	return s.SavePredictions(ctx, userID, set.All())
}

func (s *predictionService) PredictGroup(ctx context.Context, userID, groupID string, orderedTeams []models.Team) error {
	if err := s.checkDeadline(groupID); err != nil {
		return err
	}

	current, err := s.GetPredictions(ctx, userID)
	if err != nil {
		return err
	}

	set := predict.NewSet(current)
	set.UpsertGroupResult(groupID, orderedTeams)
	return s.SavePredictions(ctx, userID, set.All())
}

func (s *predictionService) Bracket(ctx context.Context, userID string) (*Bracket, error) {
	predictions, err := s.GetPredictions(ctx, userID)
	if err != nil {
		return nil, err
	}

	quarters, err := s.gameRepo.ListByGroup(ctx, models.StageQuarters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quarterfinals: %w", err)
	}
	sort.Slice(quarters, func(i, j int) bool {
		return quarters[i].Date.Before(quarters[j].Date)
	})

	bracket := &Bracket{
		Quarters: quarters,
		Semis:    []models.Game{},
		Final:    []models.Game{},
	}
	if len(quarters) != 4 {
		// Knockout fixtures are not scheduled yet; nothing to derive.
		return bracket, nil
	}

	semis, err := brackets.ResolveSemifinals(quarters, predictions)
	if err != nil {
		return nil, err
	}
	if len(semis) == 0 {
		return bracket, nil
	}
	bracket.Semis = semis

	final, err := brackets.ResolveFinal(semis, predictions)
	if err != nil {
		return nil, err
	}
	if len(final) > 0 {
		bracket.Final = final
	}
	return bracket, nil
}

// validateSet drops prediction entries that reference games absent from the
// current schedule. The schedule and a user's stored predictions are
// fetched independently and may transiently disagree, so this is not an
// error condition.
func (s *predictionService) validateSet(ctx context.Context, predictions []models.GroupPrediction) ([]models.GroupPrediction, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	known := make(map[int]bool, len(games))
	for _, game := range games {
		known[game.ID] = true
	}

	cleaned := make([]models.GroupPrediction, 0, len(predictions))
	for _, group := range predictions {
		kept := make([]models.GamePrediction, 0, len(group.Games))
		for _, gp := range group.Games {
			if known[gp.ID] {
				kept = append(kept, gp)
			}
		}
		group.Games = kept
		cleaned = append(cleaned, group)
	}
	return cleaned, nil
}

func (s *predictionService) checkDeadline(groupID string) error {
	if s.stageLocked(groupID) {
		return ErrPredictionsClosed
	}
	return nil
}

func (s *predictionService) stageLocked(groupID string) bool {
	if len(groupID) > 1 {
		return s.deadlineLocked(s.deadlines.Playoff)
	}
	return s.deadlineLocked(s.deadlines.Group)
}

func (s *predictionService) deadlineLocked(deadline time.Time) bool {
	return !deadline.IsZero() && s.now().After(deadline)
}

// enforceDeadlines rejects a full-set save that adds, changes or removes a
// bucket whose stage has locked. Buckets for an open stage pass untouched,
// so saving knockout picks after the group stage locked still works as long
// as the locked group buckets are carried over verbatim.
func (s *predictionService) enforceDeadlines(ctx context.Context, userID string, incoming []models.GroupPrediction) error {
	groupLocked := s.deadlineLocked(s.deadlines.Group)
	playoffLocked := s.deadlineLocked(s.deadlines.Playoff)
	if !groupLocked && !playoffLocked {
		return nil
	}
	locked := func(groupID string) bool {
		if len(groupID) > 1 {
			return playoffLocked
		}
		return groupLocked
	}

	current, err := s.GetPredictions(ctx, userID)
	if err != nil {
		return err
	}
	stored := make(map[string]models.GroupPrediction, len(current))
	for _, group := range current {
		stored[group.GroupID] = group
	}

	seen := make(map[string]bool, len(incoming))
	for _, group := range incoming {
		seen[group.GroupID] = true
		if !locked(group.GroupID) {
			continue
		}
		kept, ok := stored[group.GroupID]
		if !ok || !sameBucket(group, kept) {
			return ErrPredictionsClosed
		}
	}
	for _, group := range current {
		if locked(group.GroupID) && !seen[group.GroupID] {
			return ErrPredictionsClosed
		}
	}
	return nil
}

// sameBucket compares two prediction buckets by content. Predicted standings
// compare by team id; nil and empty slices are equivalent, since the two
// sides arrive through different (de)serialization paths.
func sameBucket(a, b models.GroupPrediction) bool {
	if a.GroupID != b.GroupID || len(a.Games) != len(b.Games) || len(a.Result) != len(b.Result) {
		return false
	}
	for i := range a.Games {
		if !sameGamePrediction(a.Games[i], b.Games[i]) {
			return false
		}
	}
	for i := range a.Result {
		if a.Result[i].ID != b.Result[i].ID {
			return false
		}
	}
	return true
}

func sameGamePrediction(a, b models.GamePrediction) bool {
	if a.ID != b.ID || a.HomeGoals != b.HomeGoals || a.AwayGoals != b.AwayGoals {
		return false
	}
	if (a.Winner == nil) != (b.Winner == nil) {
		return false
	}
	return a.Winner == nil || *a.Winner == *b.Winner
}
