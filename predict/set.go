// Package predict holds a user's prediction set and the lookup logic shared
// by the bracket resolver and the score evaluator.
package predict

import (
	"strings"

	"github.com/ponbac/rolf-time/models"
)

// Set is the collection of GroupPredictions owned by one user. It is scoped
// to a single request or session (hydrate, mutate, persist) and therefore
// needs no locking.
type Set struct {
	predictions []models.GroupPrediction
}

func NewSet(predictions []models.GroupPrediction) *Set {
	s := &Set{}
	s.Replace(predictions)
	return s
}

// UpsertGroupResult sets or replaces the predicted final standings for the
// given group, creating the GroupPrediction (with no game predictions) if it
// does not exist yet. Group ids are case-normalized to upper.
func (s *Set) UpsertGroupResult(groupID string, orderedTeams []models.Team) {
	groupID = strings.ToUpper(groupID)

	for i := range s.predictions {
		if s.predictions[i].GroupID == groupID {
			s.predictions[i].Result = orderedTeams
			return
		}
	}

	s.predictions = append(s.predictions, models.GroupPrediction{
		GroupID: groupID,
		Games:   []models.GamePrediction{},
		Result:  orderedTeams,
	})
}

// UpsertGamePrediction inserts or replaces the prediction for one game
// within the given group's bucket. After the call the bucket holds exactly
// one entry for the game id; the relative order of other entries is kept.
func (s *Set) UpsertGamePrediction(groupID string, gp models.GamePrediction) {
	groupID = strings.ToUpper(groupID)

	for i := range s.predictions {
		if s.predictions[i].GroupID != groupID {
			continue
		}
		games := s.predictions[i].Games
		for j := range games {
			if games[j].ID == gp.ID {
				games[j] = gp
				return
			}
		}
		s.predictions[i].Games = append(games, gp)
		return
	}

	s.predictions = append(s.predictions, models.GroupPrediction{
		GroupID: groupID,
		Games:   []models.GamePrediction{gp},
		Result:  []models.Team{},
	})
}

// All returns a snapshot of the current prediction set. Buckets and their
// inner slices are copied, so mutating the result does not affect the set.
func (s *Set) All() []models.GroupPrediction {
	return cloneGroups(s.predictions)
}

// Replace swaps the whole set, used when hydrating from a freshly fetched
// user record. A nil argument resets to an empty set.
func (s *Set) Replace(predictions []models.GroupPrediction) {
	s.predictions = cloneGroups(predictions)
}

func cloneGroups(predictions []models.GroupPrediction) []models.GroupPrediction {
	out := make([]models.GroupPrediction, len(predictions))
	for i, group := range predictions {
		group.Games = append([]models.GamePrediction(nil), group.Games...)
		group.Result = append([]models.Team(nil), group.Result...)
		out[i] = group
	}
	return out
}

// Find locates the user's prediction for a game: first the bucket matching
// the game's group id, then the entry matching the game id. The second
// return is false when either lookup misses, which callers must treat as
// "not yet predicted" rather than a fault.
func Find(game models.Game, predictions []models.GroupPrediction) (models.GamePrediction, bool) {
	for i := range predictions {
		if predictions[i].GroupID != game.GroupID {
			continue
		}
		for _, gp := range predictions[i].Games {
			if gp.ID == game.ID {
				return gp, true
			}
		}
		break
	}
	return models.GamePrediction{}, false
}
