package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"gameness/config"
	"gameness/handlers"
	"gameness/routes"
	"gameness/services"
	"gameness/store"
)

const fixturePlayfield = "[[0,2,5],[1,4,3],[3,1,4],[5,2,0]]"

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		SuspectedThreshold: 1.5,
		BoardRows:          4,
		BoardCols:          3,
		RoundTimeBudget:    60,
	}

	memStore := store.NewMemoryStore()
	buffer := services.NewMemoryClickBuffer()
	suspicion := services.NewSuspicionDetector(memStore, cfg.SuspectedThreshold)
	gameService := services.NewGameService(memStore, buffer, suspicion, cfg)
	highscoreService := services.NewHighscoreService(memStore)

	router := gin.New()
	routes.SetupRoutes(router, handlers.NewGameHandler(gameService, highscoreService), cfg.JWTSecret)
	return router, memStore
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if len(rec.Body.Bytes()) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func startGame(t *testing.T, router *gin.Engine, memStore *store.MemoryStore) (token string, gameID uint) {
	t.Helper()

	rec, resp := doJSON(t, router, http.MethodPost, "/api/games", "", gin.H{"player": "test@testsson.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start game status = %d, body %s", rec.Code, rec.Body.String())
	}
	token, _ = resp["token"].(string)
	if token == "" {
		t.Fatalf("no token in response: %v", resp)
	}

	g, err := memStore.FindActiveGame("test@testsson.com")
	if err != nil {
		t.Fatalf("FindActiveGame() error: %v", err)
	}
	g.Playfield = fixturePlayfield
	if err := memStore.Save(g); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	return token, g.ID
}

func click(row, col int) gin.H {
	return gin.H{"click": gin.H{"row": row, "column": col}}
}

func TestStartGameEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/games", "", gin.H{"player": "test@testsson.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp["rows"].(float64) != 4 || resp["cols"].(float64) != 3 {
		t.Fatalf("board = %vx%v, want 4x3", resp["rows"], resp["cols"])
	}
	if resp["name"] != "Memory" {
		t.Fatalf("name = %v, want Memory", resp["name"])
	}
	if _, hasSolution := resp["playfield"]; hasSolution {
		t.Fatal("response must not leak the board solution")
	}

	// Malformed player is rejected before touching the store.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/games", "", gin.H{"player": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestClickEndpointFlow(t *testing.T) {
	router, memStore := newTestRouter(t)
	token, _ := startGame(t, router, memStore)

	// No token, no click.
	rec, _ := doJSON(t, router, http.MethodPost, "/api/games/click", "", click(0, 0))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}

	// First click buffers with an explicit null match.
	rec, resp := doJSON(t, router, http.MethodPost, "/api/games/click", token, click(0, 0))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if match, present := resp["match"]; !present || match != nil {
		t.Fatalf("buffered click response = %v, want match present and null", resp)
	}

	// Clicking the buffered cell again is a corrupt move.
	rec, resp = doJSON(t, router, http.MethodPost, "/api/games/click", token, click(0, 0))
	if rec.Code != http.StatusBadRequest || resp["success"] != false {
		t.Fatalf("corrupt move status = %d, body %v", rec.Code, resp)
	}

	// Out-of-range coordinates are rejected.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/games/click", token, click(9, 9))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range status = %d, want 400", rec.Code)
	}

	// The second click resolves the buffered pair.
	rec, resp = doJSON(t, router, http.MethodPost, "/api/games/click", token, click(1, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp["match"] != false {
		t.Fatalf("match = %v, want false", resp["match"])
	}
	clicks, _ := resp["click"].([]any)
	if len(clicks) != 2 {
		t.Fatalf("click = %v, want two annotated clicks", resp["click"])
	}
}

func TestClickEndpointCompletesRound(t *testing.T) {
	router, memStore := newTestRouter(t)
	token, gameID := startGame(t, router, memStore)

	playSet := [][2][2]int{
		{{0, 0}, {3, 2}},
		{{1, 0}, {2, 1}},
		{{0, 1}, {3, 1}},
		{{2, 0}, {1, 2}},
		{{1, 1}, {2, 2}},
		{{3, 0}, {0, 2}},
	}

	var resp map[string]any
	var rec *httptest.ResponseRecorder
	for i, pair := range playSet {
		rec, _ = doJSON(t, router, http.MethodPost, "/api/games/click", token, click(pair[0][0], pair[0][1]))
		if rec.Code != http.StatusOK {
			t.Fatalf("pair %d first click status = %d", i, rec.Code)
		}
		rec, resp = doJSON(t, router, http.MethodPost, "/api/games/click", token, click(pair[1][0], pair[1][1]))
		if rec.Code != http.StatusOK {
			t.Fatalf("pair %d second click status = %d, body %s", i, rec.Code, rec.Body.String())
		}
		if resp["match"] != true {
			t.Fatalf("pair %d match = %v, want true", i, resp["match"])
		}
	}

	if resp["completed"] != true {
		t.Fatalf("final response = %v, want completed", resp)
	}
	// Decimals cross the wire as quoted strings.
	score := parseScore(t, resp["score"])
	if score <= 0 || score >= 2000 {
		t.Fatalf("score = %v, want in (0, 2000)", resp["score"])
	}

	// The finished round refuses further clicks.
	rec, resp = doJSON(t, router, http.MethodPost, "/api/games/click", token, click(0, 0))
	if rec.Code != http.StatusNotFound || resp["success"] != false {
		t.Fatalf("click after finish = %d %v, want 404 with success=false", rec.Code, resp)
	}

	// And the leaderboard now carries it.
	rec, resp = doJSON(t, router, http.MethodGet, "/api/highscores?player=test@testsson.com", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("highscores status = %d", rec.Code)
	}
	if best := parseScore(t, resp["best_score"]); best <= 0 {
		t.Fatalf("best_score = %v, want > 0", resp["best_score"])
	}
	top, _ := resp["top"].([]any)
	if len(top) != 1 {
		t.Fatalf("top = %v, want one entry", resp["top"])
	}
	entry := top[0].(map[string]any)
	if entry["game_id"].(float64) != float64(gameID) {
		t.Fatalf("top entry = %v, want round %d", entry, gameID)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec, resp := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("health = %d %v", rec.Code, resp)
	}
}

func parseScore(t *testing.T, v any) float64 {
	t.Helper()
	s, ok := v.(string)
	if !ok {
		t.Fatalf("score = %T(%v), want a decimal string", v, v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("score %q unparseable: %v", s, err)
	}
	return f
}
