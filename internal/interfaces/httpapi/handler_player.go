package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
	defer span.End()

	var req addPlayerRequest
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

	snapshot, err := h.leagueService.AddPlayer(ctx, usecase.AddPlayerInput{
		Name:   req.Name,
		TeamID: req.TeamID,
		Image:  req.Image,
		Goals:  req.Goals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshot)
}

func (h *Handler) EditPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))

	var req editPlayerRequest
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

	snapshot, err := h.leagueService.EditPlayer(ctx, playerID, usecase.EditPlayerInput{
		Name:   req.Name,
		TeamID: req.TeamID,
		Image:  req.Image,
		Goals:  req.Goals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "edit player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	snapshot, err := h.leagueService.DeletePlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

type addPlayerRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	TeamID string `json:"teamId" validate:"required"`
	Image  string `json:"image"`
	Goals  int    `json:"goals" validate:"min=0"`
}

type editPlayerRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	TeamID *string `json:"teamId"`
	Image  *string `json:"image"`
	Goals  *int    `json:"goals" validate:"omitempty,min=0"`
}
