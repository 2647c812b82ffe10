package league

import (
	"fmt"
	"time"
)

// Team is one of the two clubs tracked by the league. The two team slots
// are seeded at league creation and never created or destroyed individually.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Coach        string `json:"coach"`
	Logo         string `json:"logo"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

// Validate checks the cumulative-stat invariants that must hold after
// every recorded match.
func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Played != t.Won+t.Drawn+t.Lost {
		return fmt.Errorf("team %s: played=%d does not equal won+drawn+lost=%d", t.ID, t.Played, t.Won+t.Drawn+t.Lost)
	}
	if t.Points != 3*t.Won+t.Drawn {
		return fmt.Errorf("team %s: points=%d does not equal 3*won+drawn=%d", t.ID, t.Points, 3*t.Won+t.Drawn)
	}

	return nil
}

func (t Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

// Player is an athlete attached to one of the two teams.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
	Goals  int    `json:"goals"`
	Image  string `json:"image"`
}

// Scorer attributes a share of a match's goals to a player.
type Scorer struct {
	PlayerID string `json:"playerId"`
	Goals    int    `json:"goals"`
}

// Match is an immutable record of one played fixture. Team names are
// captured at recording time and are not kept in sync with later renames.
type Match struct {
	ID           string    `json:"id"`
	HomeTeamID   string    `json:"homeTeamId"`
	AwayTeamID   string    `json:"awayTeamId"`
	HomeTeamName string    `json:"homeTeamName"`
	AwayTeamName string    `json:"awayTeamName"`
	HomeGoals    int       `json:"homeGoals"`
	AwayGoals    int       `json:"awayGoals"`
	Scorers      []Scorer  `json:"scorers"`
	Date         time.Time `json:"date"`
}

// ScorerGoalSum is the number of goals attributed to named scorers.
func (m Match) ScorerGoalSum() int {
	total := 0
	for _, s := range m.Scorers {
		total += s.Goals
	}

	return total
}

// Snapshot is the full league aggregate. It is the unit of persistence and
// of remote synchronization; transient team selection never lives here.
type Snapshot struct {
	Teams   []Team   `json:"teams"`
	Players []Player `json:"players"`
	Matches []Match  `json:"matches"`
}

// Clone returns a deep copy so callers can hand snapshots out without
// exposing engine-owned slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Teams:   make([]Team, len(s.Teams)),
		Players: make([]Player, len(s.Players)),
		Matches: make([]Match, len(s.Matches)),
	}
	copy(out.Teams, s.Teams)
	copy(out.Players, s.Players)
	for i, m := range s.Matches {
		cloned := m
		cloned.Scorers = make([]Scorer, len(m.Scorers))
		copy(cloned.Scorers, m.Scorers)
		out.Matches[i] = cloned
	}

	return out
}

// TeamByID returns the index of the team, or -1 when unmatched.
func (s Snapshot) TeamByID(teamID string) int {
	for i, t := range s.Teams {
		if t.ID == teamID {
			return i
		}
	}

	return -1
}

// PlayerByID returns the index of the player, or -1 when unmatched.
func (s Snapshot) PlayerByID(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}

	return -1
}

func (s Snapshot) Validate() error {
	if len(s.Teams) != 2 {
		return fmt.Errorf("snapshot must hold exactly two teams, got %d", len(s.Teams))
	}
	if s.Teams[0].ID == s.Teams[1].ID {
		return fmt.Errorf("team ids must be distinct, both are %s", s.Teams[0].ID)
	}
	for _, t := range s.Teams {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, p := range s.Players {
		if p.ID == "" {
			return fmt.Errorf("player id is required")
		}
		if p.Goals < 0 {
			return fmt.Errorf("player %s: goals cannot be negative", p.ID)
		}
	}

	return nil
}
