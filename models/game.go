package models

import "time"

// Stage identifiers stored in games.group_id. A single letter ("A".."H")
// denotes a group-stage game, the named constants denote knockout rounds.
const (
	StageQuarters = "QUARTERS"
	StageSemis    = "SEMIS"
	StageFinal    = "FINAL"
)

type Game struct {
	ID        int       `json:"id" db:"id"`
	Finished  bool      `json:"finished" db:"finished"`
	HomeGoals int       `json:"homeGoals" db:"home_goals"`
	AwayGoals int       `json:"awayGoals" db:"away_goals"`
	Date      time.Time `json:"date" db:"date"`
	GroupID   string    `json:"groupId" db:"group_id"`

	// WinnerID is nil while the game is undecided, and nil on a finished
	// group-stage game that ended in a draw. Knockout games always have a
	// winner once finished.
	WinnerID *int `json:"winner" db:"winner_id"`

	HomeTeamID *int `json:"-" db:"home_team_id"`
	AwayTeamID *int `json:"-" db:"away_team_id"`

	// Participants are nil for knockout fixtures whose teams are not yet
	// determined.
	HomeTeam *Team `json:"homeTeam,omitempty" db:"-"`
	AwayTeam *Team `json:"awayTeam,omitempty" db:"-"`
}

// IsGroupStage reports whether the game belongs to the round-robin phase.
func (g *Game) IsGroupStage() bool {
	return len(g.GroupID) == 1
}

type Group struct {
	ID    string `json:"id"`
	Teams []Team `json:"teams"`
	Games []Game `json:"games"`
}

// GroupStanding is the actual final ordering of a group, entered by an
// admin once the group stage is complete. Results holds team ids from
// first place down.
type GroupStanding struct {
	GroupID string `json:"groupId" db:"group_id"`
	Results []int  `json:"results"`
}
