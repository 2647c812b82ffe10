package usecase

import (
	"context"
	"sort"
)

// StandingRow is one league-table row derived from a team's cumulative
// statistics.
type StandingRow struct {
	Position       int    `json:"position"`
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

// TopScorerRow is one scorer-ranking row.
type TopScorerRow struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	Goals      int    `json:"goals"`
	Image      string `json:"image,omitempty"`
}

// StandingsService projects the engine snapshot into ranked tables. Both
// orders are total: standings by points then goal difference descending,
// scorers by goals descending, with ties keeping snapshot order (stable).
type StandingsService struct {
	engine *LeagueService
}

func NewStandingsService(engine *LeagueService) *StandingsService {
	return &StandingsService{engine: engine}
}

func (s *StandingsService) ListStandings(ctx context.Context) []StandingRow {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListStandings")
	defer span.End()

	snapshot := s.engine.FullState(ctx)

	rows := make([]StandingRow, 0, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		rows = append(rows, StandingRow{
			TeamID:         t.ID,
			TeamName:       t.Name,
			Played:         t.Played,
			Won:            t.Won,
			Drawn:          t.Drawn,
			Lost:           t.Lost,
			GoalsFor:       t.GoalsFor,
			GoalsAgainst:   t.GoalsAgainst,
			GoalDifference: t.GoalDifference(),
			Points:         t.Points,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].GoalDifference > rows[j].GoalDifference
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows
}

func (s *StandingsService) ListTopScorers(ctx context.Context) []TopScorerRow {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListTopScorers")
	defer span.End()

	snapshot := s.engine.FullState(ctx)

	teamNameByID := make(map[string]string, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		teamNameByID[t.ID] = t.Name
	}

	rows := make([]TopScorerRow, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		rows = append(rows, TopScorerRow{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			TeamID:     p.TeamID,
			TeamName:   teamNameByID[p.TeamID],
			Goals:      p.Goals,
			Image:      p.Image,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Goals > rows[j].Goals
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}
