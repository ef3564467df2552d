package models

// legacyDrawWinner is the sentinel the original web client stored for a
// predicted draw. New blobs encode a draw as null; old ones still carry -1.
const legacyDrawWinner = -1

// GamePrediction is one user's guess for a single game. ID references the
// predicted game. Winner is the predicted winning team id, or nil for a
// predicted draw (group stage only).
type GamePrediction struct {
	ID        int  `json:"id"`
	HomeGoals int  `json:"homeGoals"`
	AwayGoals int  `json:"awayGoals"`
	Winner    *int `json:"winner"`
}

// GroupPrediction is one user's full guess for a group or knockout bucket:
// individual game scores plus, for group stages, the predicted final
// standings. Games holds at most one entry per game id.
type GroupPrediction struct {
	GroupID string           `json:"groupId"`
	Games   []GamePrediction `json:"games"`
	Result  []Team           `json:"result"`
}

// NormalizeLegacyWinners rewrites the old -1 draw sentinel to nil across a
// freshly deserialized prediction set. Applied on every hydrate so the rest
// of the codebase only ever sees the pointer representation.
func NormalizeLegacyWinners(predictions []GroupPrediction) {
	for gi := range predictions {
		games := predictions[gi].Games
		for i := range games {
			if games[i].Winner != nil && *games[i].Winner == legacyDrawWinner {
				games[i].Winner = nil
			}
		}
	}
}
