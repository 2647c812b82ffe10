package httpapi

import "net/http"

func (h *Handler) FetchRemote(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FetchRemote")
	defer span.End()

	snapshot, err := h.syncService.FetchRemote(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch remote failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

func (h *Handler) PushRemote(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PushRemote")
	defer span.End()

	result, err := h.syncService.PushRemote(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "push remote failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
