package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

func (h *Handler) UpdateTeamLogo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeamLogo")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))

	var req updateTeamLogoRequest
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

	snapshot, err := h.leagueService.UpdateTeamLogo(ctx, teamID, req.Logo)
	if err != nil {
		h.logger.WarnContext(ctx, "update team logo failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

type updateTeamLogoRequest struct {
	Logo string `json:"logo" validate:"required"`
}
