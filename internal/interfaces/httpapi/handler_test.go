package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prissleague/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prissleague/internal/platform/id"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/usecase"
)

const testAdminID = "900000000000000001"

type testAPI struct {
	router  http.Handler
	matches *memory.MatchRepository
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()

	players := memory.NewPlayerRepository(memory.SeedPlayers())
	matches := memory.NewMatchRepository(players)
	handler := NewHandler(
		usecase.NewPlayerService(usecase.PlayerServiceConfig{}, players),
		usecase.NewMatchService(matches, players, &id.SequenceGenerator{Prefix: "m"}),
		logging.NewNop(),
	)
	router := NewRouter(handler, RouterConfig{AdminIDs: []string{testAdminID}}, logging.NewNop())

	return testAPI{router: router, matches: matches}
}

func (a testAPI) do(t *testing.T, method, path, adminID, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if adminID != "" {
		req.Header.Set(adminIDHeader, adminID)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response for %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", envelope)
	}
	return data
}

func errorStatusOf(envelope map[string]any) string {
	errObj, _ := envelope["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec, envelope := api.do(t, http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := dataOf(t, envelope)
	if data["status"] != "ok" {
		t.Fatalf("unexpected status: %v", data["status"])
	}
	if _, ok := data["timestamp"].(string); !ok {
		t.Fatalf("expected timestamp, got %v", data["timestamp"])
	}
}

func TestLeaderboard_SortedByRating(t *testing.T) {
	api := newTestAPI(t)

	rec, envelope := api.do(t, http.MethodGet, "/api/leaderboard", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	players, _ := dataOf(t, envelope)["players"].([]any)
	if len(players) != 5 {
		t.Fatalf("expected 5 solo players, got %d", len(players))
	}
	prev := 1 << 30
	for _, raw := range players {
		p := raw.(map[string]any)
		elo := int(p["solo_elo"].(float64))
		if elo > prev {
			t.Fatalf("leaderboard not sorted: %v", players)
		}
		prev = elo
	}
}

func TestLeaderboard_InvalidLimit(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/leaderboard?limit=abc", "/api/leaderboard?limit=100000"} {
		rec, envelope := api.do(t, http.MethodGet, path, "", "")
		if rec.Code != http.StatusBadRequest || errorStatusOf(envelope) != "INVALID_ARGUMENT" {
			t.Fatalf("%s: expected 400 INVALID_ARGUMENT, got %d %v", path, rec.Code, envelope)
		}
	}
}

func TestGetPlayer(t *testing.T) {
	api := newTestAPI(t)

	rec, envelope := api.do(t, http.MethodGet, "/api/player/180000000000000002", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	p, _ := dataOf(t, envelope)["player"].(map[string]any)
	if p["name"] != "Brisk" || p["division"] != "solo" {
		t.Fatalf("unexpected player: %v", p)
	}

	rec, envelope = api.do(t, http.MethodGet, "/api/player/404", "", "")
	if rec.Code != http.StatusNotFound || errorStatusOf(envelope) != "NOT_FOUND" {
		t.Fatalf("expected 404, got %d %v", rec.Code, envelope)
	}

	rec, _ = api.do(t, http.MethodGet, "/api/player/", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty id, got %d", rec.Code)
	}
}

func TestCreateMatch_NonAdminIsForbiddenAndInsertsNothing(t *testing.T) {
	api := newTestAPI(t)
	body := `{"team1_ids":["1"],"team2_ids":["2"],"room_code":"ROOM"}`

	for _, adminID := range []string{"", "123"} {
		rec, envelope := api.do(t, http.MethodPost, "/api/matches", adminID, body)
		if rec.Code != http.StatusForbidden || errorStatusOf(envelope) != "PERMISSION_DENIED" {
			t.Fatalf("admin=%q: expected 403, got %d %v", adminID, rec.Code, envelope)
		}
	}

	recent, err := api.matches.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected no matches, got %d", len(recent))
	}
}

func TestCreateMatch_Admin(t *testing.T) {
	api := newTestAPI(t)

	rec, envelope := api.do(t, http.MethodPost, "/api/matches", testAdminID,
		`{"team1_ids":["1","2"],"team2_ids":["3","4"],"room_code":"ROOM42","winner":"team1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", rec.Code, envelope)
	}
	m, _ := dataOf(t, envelope)["match"].(map[string]any)
	if m["public_id"] != "m1" || m["status"] != "pending" || m["division"] != "solo" {
		t.Fatalf("unexpected match: %v", m)
	}
}

func TestCreateMatch_InvalidPayloads(t *testing.T) {
	api := newTestAPI(t)

	bodies := []string{
		`{"team1_ids":[],"team2_ids":["2"],"room_code":"R"}`,
		`{"team1_ids":["1"],"team2_ids":["2"]}`,
		`{"team1_ids":["1"],"team2_ids":[""],"room_code":"R"}`,
		`{"team1_ids":["1"],"team2_ids":["1"],"room_code":"R"}`,
		`{"team1_ids":["1,3"],"team2_ids":["2"],"room_code":"R"}`,
		`not json`,
	}
	for _, body := range bodies {
		rec, envelope := api.do(t, http.MethodPost, "/api/matches", testAdminID, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d %v", body, rec.Code, envelope)
		}
	}
	recent, err := api.matches.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected no stored matches, got %d", len(recent))
	}
}

func TestCompleteMatch_AppliesRatingsOnce(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/api/matches", testAdminID,
		`{"team1_ids":["180000000000000003"],"team2_ids":["180000000000000004"],"room_code":"R1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}

	rec, envelope := api.do(t, http.MethodPost, "/api/matches/m1/complete", testAdminID, `{"winner":"team2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d %v", rec.Code, envelope)
	}
	data := dataOf(t, envelope)
	changes, _ := data["changes"].([]any)
	if len(changes) != 2 {
		t.Fatalf("expected 2 rating changes, got %v", changes)
	}
	m, _ := data["match"].(map[string]any)
	if m["status"] != "completed" || m["winner"] != "team2" {
		t.Fatalf("unexpected match: %v", m)
	}

	rec, envelope = api.do(t, http.MethodPost, "/api/matches/m1/complete", testAdminID, `{"winner":"team2"}`)
	if rec.Code != http.StatusConflict || errorStatusOf(envelope) != "ABORTED" {
		t.Fatalf("second complete: expected 409, got %d %v", rec.Code, envelope)
	}

	rec, _ = api.do(t, http.MethodPost, "/api/matches/m1/cancel", testAdminID, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("cancel completed: expected 409, got %d", rec.Code)
	}
}

func TestCompleteMatch_InvalidWinner(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/api/matches", testAdminID, `{"team1_ids":["1"],"team2_ids":["2"],"room_code":"R"}`)
	rec, _ := api.do(t, http.MethodPost, "/api/matches/m1/complete", testAdminID, `{"winner":"draw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCancelMatch(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/api/matches", testAdminID, `{"team1_ids":["1"],"team2_ids":["2"],"room_code":"R"}`)

	rec, _ := api.do(t, http.MethodPost, "/api/matches/m1/cancel", "", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin, got %d", rec.Code)
	}

	rec, envelope := api.do(t, http.MethodPost, "/api/matches/m1/cancel", testAdminID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", rec.Code, envelope)
	}

	rec, envelope = api.do(t, http.MethodGet, "/api/matches/m1", "", "")
	m, _ := dataOf(t, envelope)["match"].(map[string]any)
	if rec.Code != http.StatusOK || m["status"] != "cancelled" {
		t.Fatalf("unexpected match after cancel: %d %v", rec.Code, m)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	api := newTestAPI(t)

	rec, envelope := api.do(t, http.MethodGet, "/api/unknown", "", "")
	if rec.Code != http.StatusNotFound || errorStatusOf(envelope) != "NOT_FOUND" {
		t.Fatalf("expected 404, got %d %v", rec.Code, envelope)
	}
}
