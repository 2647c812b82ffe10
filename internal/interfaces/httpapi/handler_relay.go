package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"
	github "github.com/kacemyassine/atlantis-league/external/github"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

// The relay endpoint speaks a fixed wire contract consumed by the scoreboard
// frontend: raw JSON bodies, not the google envelope. Do not change the
// response shapes or messages without coordinating a frontend release.

type relayUpdateRequest struct {
	Data   jsoniter.RawMessage `json:"data"`
	Owner  string              `json:"owner"`
	Repo   string              `json:"repo"`
	Path   string              `json:"path"`
	Branch string              `json:"branch"`
}

type relayErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type relaySuccessResponse struct {
	Success bool   `json:"success"`
	SHA     string `json:"sha"`
}

func (h *Handler) RelayUpdateJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RelayUpdateJSON")
	defer span.End()

	if !h.relay.Authenticated() {
		h.logger.ErrorContext(ctx, "relay rejected: github token is not configured")
		writeRelayJSON(w, http.StatusInternalServerError, relayErrorResponse{
			Error: "Server configuration error: Missing GitHub token",
		})
		return
	}

	var req relayUpdateRequest
	if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRelayJSON(w, http.StatusBadRequest, relayErrorResponse{
			Error: "Missing required fields: data, owner, repo, path",
		})
		return
	}
	if !relayDataPresent(req.Data) || req.Owner == "" || req.Repo == "" || req.Path == "" {
		writeRelayJSON(w, http.StatusBadRequest, relayErrorResponse{
			Error: "Missing required fields: data, owner, repo, path",
		})
		return
	}

	branch := req.Branch
	if branch == "" {
		branch = "main"
	}
	ref := usecase.RemoteFileRef{Owner: req.Owner, Repo: req.Repo, Path: req.Path, Branch: branch}

	content, err := prettyJSON(req.Data)
	if err != nil {
		writeRelayJSON(w, http.StatusBadRequest, relayErrorResponse{
			Error: "Missing required fields: data, owner, repo, path",
		})
		return
	}

	sha, _, err := h.relay.GetContentSHA(ctx, ref)
	if err != nil {
		h.logger.WarnContext(ctx, "relay revision lookup failed", "owner", req.Owner, "repo", req.Repo, "path", req.Path, "error", err)
		writeRelayUpstreamError(w, err, "Failed to read current file revision")
		return
	}

	message := "Update league data - " + time.Now().UTC().Format(time.RFC3339)
	newSHA, err := h.relay.PutContent(ctx, ref, content, sha, message)
	if err != nil {
		h.logger.WarnContext(ctx, "relay update failed", "owner", req.Owner, "repo", req.Repo, "path", req.Path, "error", err)
		writeRelayUpstreamError(w, err, "Failed to update file")
		return
	}

	h.logger.InfoContext(ctx, "relay update succeeded", "owner", req.Owner, "repo", req.Repo, "path", req.Path, "sha", newSHA)
	writeRelayJSON(w, http.StatusOK, relaySuccessResponse{Success: true, SHA: newSHA})
}

func writeRelayJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeRelayUpstreamError passes the upstream status and diagnostic body
// through when GitHub itself rejected the call, and reports a bad gateway
// for transport-level failures.
func writeRelayUpstreamError(w http.ResponseWriter, err error, fallbackMessage string) {
	var upstream *github.UpstreamError
	if errors.As(err, &upstream) {
		var details any
		if decodeErr := sonic.Unmarshal([]byte(upstream.Body), &details); decodeErr != nil {
			details = upstream.Body
		}
		writeRelayJSON(w, upstream.StatusCode, relayErrorResponse{
			Error:   "GitHub API error: " + http.StatusText(upstream.StatusCode),
			Details: details,
		})
		return
	}

	writeRelayJSON(w, http.StatusBadGateway, relayErrorResponse{
		Error:   fallbackMessage,
		Details: err.Error(),
	})
}

func relayDataPresent(raw jsoniter.RawMessage) bool {
	trimmed := bytes.TrimSpace([]byte(raw))
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func prettyJSON(raw jsoniter.RawMessage) ([]byte, error) {
	var decoded any
	if err := sonic.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	return sonic.ConfigDefault.MarshalIndent(decoded, "", "  ")
}
