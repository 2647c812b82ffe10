package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kacemyassine/atlantis-league/internal/domain/league"
	idgen "github.com/kacemyassine/atlantis-league/internal/platform/id"
	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
)

// RecordMatchInput is the incoming payload for one result-recording
// transaction.
type RecordMatchInput struct {
	HomeGoals int
	AwayGoals int
	Scorers   []league.Scorer
}

// AddPlayerInput is the incoming payload for player creation.
type AddPlayerInput struct {
	Name   string
	TeamID string
	Image  string
	Goals  int
}

// EditPlayerInput carries partial player fields; nil pointers leave the
// existing value untouched.
type EditPlayerInput struct {
	Name   *string
	TeamID *string
	Image  *string
	Goals  *int
}

// LeagueService is the league state engine: the sole mutator of league data.
// It owns the authoritative in-memory snapshot, serializes every transaction
// behind a mutex, and persists the full snapshot before a mutation returns.
// Observers only ever see fully-applied transactions.
type LeagueService struct {
	store  league.Store
	idGen  idgen.Generator
	logger *logging.Logger
	strict bool
	now    func() time.Time

	mu       sync.Mutex
	snapshot league.Snapshot
	// Transient next-match team selection. Never persisted.
	homeTeamID string
	awayTeamID string
}

// NewLeagueService bootstraps the engine from the store; a missing or
// unreadable document yields the embedded default dataset.
func NewLeagueService(
	ctx context.Context,
	store league.Store,
	idGen idgen.Generator,
	strict bool,
	logger *logging.Logger,
) (*LeagueService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load league document: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		logger.WarnContext(ctx, "stored league document invalid, starting from defaults", "error", err)
		snapshot = league.DefaultSnapshot()
	}

	return &LeagueService{
		store:    store,
		idGen:    idGen,
		logger:   logger,
		strict:   strict,
		now:      time.Now,
		snapshot: snapshot,
	}, nil
}

// SelectTeams sets the transient home/away selection for the next recorded
// match. Both ids must name existing teams; identical ids are tolerated here
// and rejected at record time.
func (s *LeagueService) SelectTeams(ctx context.Context, homeTeamID, awayTeamID string) error {
	_, span := startUsecaseSpan(ctx, "usecase.LeagueService.SelectTeams")
	defer span.End()

	homeTeamID = strings.TrimSpace(homeTeamID)
	awayTeamID = strings.TrimSpace(awayTeamID)
	if homeTeamID == "" || awayTeamID == "" {
		return fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.TeamByID(homeTeamID) < 0 {
		return fmt.Errorf("%w: unknown team %s", ErrInvalidInput, homeTeamID)
	}
	if s.snapshot.TeamByID(awayTeamID) < 0 {
		return fmt.Errorf("%w: unknown team %s", ErrInvalidInput, awayTeamID)
	}

	s.homeTeamID = homeTeamID
	s.awayTeamID = awayTeamID

	return nil
}

// Selection returns the transient home/away team ids, either may be empty.
func (s *LeagueService) Selection(ctx context.Context) (string, string) {
	_, span := startUsecaseSpan(ctx, "usecase.LeagueService.Selection")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.homeTeamID, s.awayTeamID
}

// RecordMatch applies one result-recording transaction: team statistics,
// scorer totals, and an appended immutable match record, all persisted
// before returning. On any validation failure the snapshot is untouched.
func (s *LeagueService) RecordMatch(ctx context.Context, input RecordMatchInput) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.RecordMatch")
	defer span.End()

	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return league.Snapshot{}, fmt.Errorf("%w: goal counts cannot be negative", ErrInvalidInput)
	}
	for _, scorer := range input.Scorers {
		if strings.TrimSpace(scorer.PlayerID) == "" {
			return league.Snapshot{}, fmt.Errorf("%w: scorer player id is required", ErrInvalidInput)
		}
		if scorer.Goals < 0 {
			return league.Snapshot{}, fmt.Errorf("%w: scorer goals cannot be negative", ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.homeTeamID == "" || s.awayTeamID == "" {
		return league.Snapshot{}, fmt.Errorf("%w: home and away teams must be selected", ErrInvalidSelection)
	}
	if s.homeTeamID == s.awayTeamID {
		return league.Snapshot{}, fmt.Errorf("%w: home and away teams must differ", ErrInvalidSelection)
	}

	homeIdx := s.snapshot.TeamByID(s.homeTeamID)
	awayIdx := s.snapshot.TeamByID(s.awayTeamID)
	if homeIdx < 0 || awayIdx < 0 {
		return league.Snapshot{}, fmt.Errorf("%w: selected teams no longer exist", ErrInvalidSelection)
	}

	if len(input.Scorers) > 0 {
		sum := 0
		for _, scorer := range input.Scorers {
			sum += scorer.Goals
		}
		if sum != input.HomeGoals+input.AwayGoals {
			return league.Snapshot{}, fmt.Errorf(
				"%w: scorers total %d, match total %d",
				ErrScoreMismatch, sum, input.HomeGoals+input.AwayGoals,
			)
		}
	}

	if s.strict {
		if err := s.validateScorers(input.Scorers, s.homeTeamID, s.awayTeamID); err != nil {
			return league.Snapshot{}, err
		}
	}

	next := s.snapshot.Clone()

	homeWin := input.HomeGoals > input.AwayGoals
	awayWin := input.AwayGoals > input.HomeGoals
	draw := !homeWin && !awayWin

	applyResult(&next.Teams[homeIdx], input.HomeGoals, input.AwayGoals, homeWin, draw)
	applyResult(&next.Teams[awayIdx], input.AwayGoals, input.HomeGoals, awayWin, draw)

	for _, scorer := range input.Scorers {
		if idx := next.PlayerByID(scorer.PlayerID); idx >= 0 {
			next.Players[idx].Goals += scorer.Goals
		}
	}

	matchID, err := s.idGen.NewID("match")
	if err != nil {
		return league.Snapshot{}, fmt.Errorf("generate match id: %w", err)
	}

	scorers := make([]league.Scorer, len(input.Scorers))
	copy(scorers, input.Scorers)

	next.Matches = append(next.Matches, league.Match{
		ID:           matchID,
		HomeTeamID:   next.Teams[homeIdx].ID,
		AwayTeamID:   next.Teams[awayIdx].ID,
		HomeTeamName: next.Teams[homeIdx].Name,
		AwayTeamName: next.Teams[awayIdx].Name,
		HomeGoals:    input.HomeGoals,
		AwayGoals:    input.AwayGoals,
		Scorers:      scorers,
		Date:         s.now().UTC(),
	})

	if err := s.commit(ctx, next); err != nil {
		return league.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "match recorded",
		"match_id", matchID,
		"home_team_id", next.Teams[homeIdx].ID,
		"away_team_id", next.Teams[awayIdx].ID,
		"home_goals", input.HomeGoals,
		"away_goals", input.AwayGoals,
		"scorer_count", len(scorers),
	)

	return s.snapshot.Clone(), nil
}

func (s *LeagueService) validateScorers(scorers []league.Scorer, homeTeamID, awayTeamID string) error {
	for _, scorer := range scorers {
		idx := s.snapshot.PlayerByID(scorer.PlayerID)
		if idx < 0 {
			return fmt.Errorf("%w: unknown scorer %s", ErrInvalidInput, scorer.PlayerID)
		}
		teamID := s.snapshot.Players[idx].TeamID
		if teamID != homeTeamID && teamID != awayTeamID {
			return fmt.Errorf("%w: scorer %s does not play for either side", ErrInvalidInput, scorer.PlayerID)
		}
	}

	return nil
}

// AddPlayer appends a new player with a generated id. The owning team id is
// deliberately not checked against existing teams unless strict mode is on.
func (s *LeagueService) AddPlayer(ctx context.Context, input AddPlayerInput) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.AddPlayer")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.Name == "" {
		return league.Snapshot{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if input.Goals < 0 {
		return league.Snapshot{}, fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.strict && s.snapshot.TeamByID(input.TeamID) < 0 {
		return league.Snapshot{}, fmt.Errorf("%w: unknown team %s", ErrInvalidInput, input.TeamID)
	}

	playerID, err := s.idGen.NewID("player")
	if err != nil {
		return league.Snapshot{}, fmt.Errorf("generate player id: %w", err)
	}

	next := s.snapshot.Clone()
	next.Players = append(next.Players, league.Player{
		ID:     playerID,
		Name:   input.Name,
		TeamID: input.TeamID,
		Image:  input.Image,
		Goals:  input.Goals,
	})

	if err := s.commit(ctx, next); err != nil {
		return league.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "player added", "player_id", playerID, "team_id", input.TeamID)

	return s.snapshot.Clone(), nil
}

// EditPlayer merges the provided fields into the matching player. An unknown
// id is a silent no-op, not an error.
func (s *LeagueService) EditPlayer(ctx context.Context, playerID string, input EditPlayerInput) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.EditPlayer")
	defer span.End()

	if input.Goals != nil && *input.Goals < 0 {
		return league.Snapshot{}, fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot.Clone()
	if idx := next.PlayerByID(playerID); idx >= 0 {
		if input.Name != nil {
			next.Players[idx].Name = strings.TrimSpace(*input.Name)
		}
		if input.TeamID != nil {
			next.Players[idx].TeamID = strings.TrimSpace(*input.TeamID)
		}
		if input.Image != nil {
			next.Players[idx].Image = *input.Image
		}
		if input.Goals != nil {
			next.Players[idx].Goals = *input.Goals
		}
	}

	if err := s.commit(ctx, next); err != nil {
		return league.Snapshot{}, err
	}

	return s.snapshot.Clone(), nil
}

// DeletePlayer removes the matching player. Historical match scorer entries
// referencing the id are intentionally left dangling. An unknown id is a
// silent no-op.
func (s *LeagueService) DeletePlayer(ctx context.Context, playerID string) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.DeletePlayer")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot.Clone()
	if idx := next.PlayerByID(playerID); idx >= 0 {
		next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	}

	if err := s.commit(ctx, next); err != nil {
		return league.Snapshot{}, err
	}

	return s.snapshot.Clone(), nil
}

// UpdateTeamLogo replaces the logo of the matching team. An unknown id is a
// silent no-op.
func (s *LeagueService) UpdateTeamLogo(ctx context.Context, teamID, logo string) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UpdateTeamLogo")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot.Clone()
	if idx := next.TeamByID(teamID); idx >= 0 {
		next.Teams[idx].Logo = logo
	}

	if err := s.commit(ctx, next); err != nil {
		return league.Snapshot{}, err
	}

	return s.snapshot.Clone(), nil
}

// ResetLeague restores the embedded seed dataset with every cumulative
// counter zeroed, clears all matches, and removes the stored document so the
// next load starts from defaults. Irreversible.
func (s *LeagueService) ResetLeague(ctx context.Context) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ResetLeague")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return league.Snapshot{}, fmt.Errorf("clear league document: %w", err)
	}

	s.snapshot = league.DefaultSnapshot()
	s.homeTeamID = ""
	s.awayTeamID = ""

	s.logger.InfoContext(ctx, "league reset to seed dataset")

	return s.snapshot.Clone(), nil
}

// FullState returns a deep copy of {teams, players, matches} without the
// transient selection.
func (s *LeagueService) FullState(ctx context.Context) league.Snapshot {
	_, span := startUsecaseSpan(ctx, "usecase.LeagueService.FullState")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot.Clone()
}

// ReplaceState swaps in a whole snapshot (the remote-fetch apply path) and
// persists it. The transient selection is dropped because the incoming
// snapshot may not contain the previously selected teams.
func (s *LeagueService) ReplaceState(ctx context.Context, snapshot league.Snapshot) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ReplaceState")
	defer span.End()

	if err := snapshot.Validate(); err != nil {
		return league.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, snapshot.Clone()); err != nil {
		return league.Snapshot{}, err
	}
	s.homeTeamID = ""
	s.awayTeamID = ""

	s.logger.InfoContext(ctx, "league snapshot replaced",
		"teams", len(snapshot.Teams),
		"players", len(snapshot.Players),
		"matches", len(snapshot.Matches),
	)

	return s.snapshot.Clone(), nil
}

// commit persists the candidate snapshot and only then makes it visible.
// A failed save leaves the previous snapshot in place, so observers never
// see a state that did not reach durable storage.
func (s *LeagueService) commit(ctx context.Context, next league.Snapshot) error {
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save league document: %w", err)
	}
	s.snapshot = next

	return nil
}

func applyResult(t *league.Team, goalsFor, goalsAgainst int, won, draw bool) {
	t.Played++
	t.GoalsFor += goalsFor
	t.GoalsAgainst += goalsAgainst
	switch {
	case won:
		t.Won++
		t.Points += 3
	case draw:
		t.Drawn++
		t.Points++
	default:
		t.Lost++
	}
}
