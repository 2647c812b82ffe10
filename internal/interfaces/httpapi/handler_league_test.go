package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/kacemyassine/atlantis-league/internal/infrastructure/storage"
	"github.com/kacemyassine/atlantis-league/internal/platform/id"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "league.json"), nil)
	engine, err := usecase.NewLeagueService(context.Background(), store, id.NewRandomGenerator(), false, nil)
	if err != nil {
		t.Fatalf("NewLeagueService error: %v", err)
	}

	handler := NewHandler(engine, usecase.NewStandingsService(engine), nil, &stubRelay{authenticated: true}, nil)
	return NewRouter(handler, nil, []string{"*"}, "2604")
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func envelopeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		APIVersion string         `json:"apiVersion"`
		Data       map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if body.APIVersion != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %q", body.APIVersion)
	}
	return body.Data
}

func TestRouter_GetLeagueStateServesSeedDataset(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/league/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	data := envelopeData(t, rec)
	teams, _ := data["teams"].([]any)
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	matches, _ := data["matches"].([]any)
	if len(matches) != 0 {
		t.Fatalf("expected empty match list, got %d", len(matches))
	}
}

func TestRouter_AdminGateOnMutations(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/league/reset", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing admin code: expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/league/reset?admin=0000", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong admin code: expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/league/reset?admin=2604", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("valid admin code: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_SelectionThenRecordMatchFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/v1/league/selection?admin=2604",
		`{"homeTeamId":"team1","awayTeamId":"team2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save selection: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/league/matches?admin=2604",
		`{"homeGoals":3,"awayGoals":1,"scorers":[{"playerId":"player-seed-01","goals":3},{"playerId":"player-seed-05","goals":1}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record match: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/league/standings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("standings: expected 200, got %d", rec.Code)
	}
	var standings struct {
		Data []usecase.StandingRow `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &standings); err != nil {
		t.Fatalf("unmarshal standings: %v", err)
	}
	if len(standings.Data) != 2 || standings.Data[0].TeamID != "team1" || standings.Data[0].Points != 3 {
		t.Fatalf("unexpected standings: %+v", standings.Data)
	}
}

func TestRouter_RecordMatchWithoutSelectionFails(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/league/matches?admin=2604",
		`{"homeGoals":1,"awayGoals":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without selection, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalidSelection") {
		t.Fatalf("expected invalidSelection reason, body=%s", rec.Body.String())
	}
}

func TestRouter_UnknownRequestFieldRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/players?admin=2604",
		`{"name":"New Guy","teamId":"team1","surprise":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d body=%s", rec.Code, rec.Body.String())
	}
}
