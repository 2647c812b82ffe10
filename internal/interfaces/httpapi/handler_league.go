package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/kacemyassine/atlantis-league/internal/domain/league"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

// The domain snapshot types serialize in the canonical document shape, so
// state responses return them directly instead of re-mapping through DTOs.

func (h *Handler) GetLeagueState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueState")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.leagueService.FullState(ctx))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.standingsService.ListStandings(ctx))
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopScorers")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.standingsService.ListTopScorers(ctx))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.leagueService.FullState(ctx).Matches)
}

func (h *Handler) SaveSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveSelection")
	defer span.End()

	var req selectionRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.leagueService.SelectTeams(ctx, req.HomeTeamID, req.AwayTeamID); err != nil {
		h.logger.WarnContext(ctx, "save selection failed", "home_team_id", req.HomeTeamID, "away_team_id", req.AwayTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionDTO{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
	})
}

func (h *Handler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatch")
	defer span.End()

	var req recordMatchRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scorers := make([]league.Scorer, 0, len(req.Scorers))
	for _, scorer := range req.Scorers {
		scorers = append(scorers, league.Scorer{PlayerID: scorer.PlayerID, Goals: scorer.Goals})
	}

	snapshot, err := h.leagueService.RecordMatch(ctx, usecase.RecordMatchInput{
		HomeGoals: req.HomeGoals,
		AwayGoals: req.AwayGoals,
		Scorers:   scorers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match failed", "home_goals", req.HomeGoals, "away_goals", req.AwayGoals, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshot)
}

func (h *Handler) ResetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetLeague")
	defer span.End()

	snapshot, err := h.leagueService.ResetLeague(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reset league failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

type selectionRequest struct {
	HomeTeamID string `json:"homeTeamId" validate:"required"`
	AwayTeamID string `json:"awayTeamId" validate:"required"`
}

type selectionDTO struct {
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
}

type recordMatchRequest struct {
	HomeGoals int                  `json:"homeGoals" validate:"min=0"`
	AwayGoals int                  `json:"awayGoals" validate:"min=0"`
	Scorers   []scorerRequestEntry `json:"scorers" validate:"dive"`
}

type scorerRequestEntry struct {
	PlayerID string `json:"playerId" validate:"required"`
	Goals    int    `json:"goals" validate:"min=0"`
}
