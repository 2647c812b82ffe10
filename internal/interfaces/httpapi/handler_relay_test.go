package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	github "github.com/kacemyassine/atlantis-league/external/github"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

type stubRelay struct {
	authenticated bool
	sha           string
	exists        bool
	shaErr        error
	putSHA        string
	putErr        error
	gotRef        usecase.RemoteFileRef
	gotContent    []byte
	gotSHA        string
}

func (s *stubRelay) Authenticated() bool { return s.authenticated }

func (s *stubRelay) GetContentSHA(_ context.Context, ref usecase.RemoteFileRef) (string, bool, error) {
	s.gotRef = ref
	return s.sha, s.exists, s.shaErr
}

func (s *stubRelay) PutContent(_ context.Context, ref usecase.RemoteFileRef, content []byte, sha, _ string) (string, error) {
	s.gotRef = ref
	s.gotContent = content
	s.gotSHA = sha
	return s.putSHA, s.putErr
}

func relayHandler(relay ContentRelay) *Handler {
	return NewHandler(nil, nil, nil, relay, nil)
}

func postRelay(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/relay/update-json", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.RelayUpdateJSON(rec, req)
	return rec
}

func decodeRelayBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal relay response: %v", err)
	}
	return body
}

func TestRelayUpdateJSON_Success(t *testing.T) {
	relay := &stubRelay{authenticated: true, sha: "old123", exists: true, putSHA: "new456"}
	rec := postRelay(t, relayHandler(relay), `{"data":{"teams":[]},"owner":"kacemyassine","repo":"atlantis-showdown","path":"src/data/defaultLeagueData.json"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeRelayBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}
	if body["sha"] != "new456" {
		t.Fatalf("expected new sha, got %v", body["sha"])
	}

	if relay.gotSHA != "old123" {
		t.Fatalf("prior revision not forwarded: %q", relay.gotSHA)
	}
	if relay.gotRef.Branch != "main" {
		t.Fatalf("branch must default to main, got %q", relay.gotRef.Branch)
	}
	if !strings.Contains(string(relay.gotContent), "teams") {
		t.Fatalf("payload not forwarded: %s", relay.gotContent)
	}
}

func TestRelayUpdateJSON_MissingTokenIsServerConfigurationError(t *testing.T) {
	relay := &stubRelay{authenticated: false}
	rec := postRelay(t, relayHandler(relay), `{"data":{},"owner":"o","repo":"r","path":"p.json"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeRelayBody(t, rec)
	if body["error"] != "Server configuration error: Missing GitHub token" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestRelayUpdateJSON_MissingFields(t *testing.T) {
	relay := &stubRelay{authenticated: true}

	for _, payload := range []string{
		`{"owner":"o","repo":"r","path":"p.json"}`,
		`{"data":null,"owner":"o","repo":"r","path":"p.json"}`,
		`{"data":{},"repo":"r","path":"p.json"}`,
		`{"data":{},"owner":"o","path":"p.json"}`,
		`{"data":{},"owner":"o","repo":"r"}`,
		`not json at all`,
	} {
		rec := postRelay(t, relayHandler(relay), payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected status 400, got %d", payload, rec.Code)
		}
		body := decodeRelayBody(t, rec)
		if body["error"] != "Missing required fields: data, owner, repo, path" {
			t.Fatalf("payload %s: unexpected error message: %v", payload, body["error"])
		}
	}
}

func TestRelayUpdateJSON_UpstreamErrorPassesThrough(t *testing.T) {
	relay := &stubRelay{
		authenticated: true,
		exists:        true,
		sha:           "old",
		putErr:        &github.UpstreamError{StatusCode: http.StatusForbidden, Body: `{"message":"Resource not accessible"}`},
	}
	rec := postRelay(t, relayHandler(relay), `{"data":{},"owner":"o","repo":"r","path":"p.json"}`)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected upstream status 403, got %d", rec.Code)
	}
	body := decodeRelayBody(t, rec)
	if got, _ := body["error"].(string); !strings.HasPrefix(got, "GitHub API error:") {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["message"] != "Resource not accessible" {
		t.Fatalf("upstream body must pass through as details: %v", body["details"])
	}
}

func TestRelayUpdateJSON_TransportFailureIsBadGateway(t *testing.T) {
	relay := &stubRelay{
		authenticated: true,
		shaErr:        context.DeadlineExceeded,
	}
	rec := postRelay(t, relayHandler(relay), `{"data":{},"owner":"o","repo":"r","path":"p.json"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
}
