package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

// ContentRelay is the subset of the GitHub contents client the relay endpoint
// proxies through.
type ContentRelay interface {
	Authenticated() bool
	GetContentSHA(ctx context.Context, ref usecase.RemoteFileRef) (string, bool, error)
	PutContent(ctx context.Context, ref usecase.RemoteFileRef, content []byte, sha, message string) (string, error)
}

type Handler struct {
	leagueService    *usecase.LeagueService
	standingsService *usecase.StandingsService
	syncService      *usecase.SyncService
	relay            ContentRelay
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	standingsService *usecase.StandingsService,
	syncService *usecase.SyncService,
	relay ContentRelay,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:    leagueService,
		standingsService: standingsService,
		syncService:      syncService,
		relay:            relay,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
