package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	"github.com/iamasit07/c4-minimax/pkg/auth"
	"github.com/iamasit07/c4-minimax/pkg/httputil"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenIssuer
	svc    *game.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm := game.NewSessionManager(nil, nil, game.ManagerOptions{Depth: 2})
	svc := game.NewService(sm, nil, nil)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	t.Cleanup(sm.Wait)

	return &testServer{
		router: NewRouter(RouterDeps{
			Service:        svc,
			Tokens:         tokens,
			AllowedOrigins: []string{"http://localhost:5173"},
		}),
		tokens: tokens,
		svc:    svc,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) guestToken(t *testing.T, guestID string) string {
	t.Helper()
	token, err := s.tokens.GenerateGuestToken(guestID)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestIssueGuest(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/guest", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[map[string]string](t, rec)
	claims, err := s.tokens.ValidateGuestToken(body["token"])
	require.NoError(t, err)
	require.Equal(t, body["guestId"], claims.GuestID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, httputil.GuestCookieName, cookies[0].Name)
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.guestToken(t, "guest_http")

	rec := s.do(t, http.MethodPost, "/api/games", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/games", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/games", token, map[string]any{"size": 5, "difficulty": "medium"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[domain.LiveGame](t, rec)
	require.NotEmpty(t, created.GameID)
	require.Equal(t, 5, created.Size)
	require.Equal(t, domain.ColorA, created.HumanColor)

	movePath := "/api/games/" + created.GameID + "/moves"
	rec = s.do(t, http.MethodPost, movePath, token, map[string]any{"column": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	turn := decode[game.TurnResult](t, rec)
	require.Equal(t, 0, turn.Column)
	require.NotNil(t, turn.Bot)
	require.Len(t, turn.Game.Moves, 2)

	rec = s.do(t, http.MethodPost, movePath, token, map[string]any{"column": 7})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, movePath, token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, movePath, s.guestToken(t, "someone_else"), map[string]any{"column": 1})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/games/missing/moves", token, map[string]any{"column": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/games/"+created.GameID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[game.GameView](t, rec)
	require.NotNil(t, view.Live)
	require.Len(t, view.Live.Moves, 2)

	rec = s.do(t, http.MethodGet, "/api/games/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/watch", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode[[]liveGameResponse](t, rec)
	require.Len(t, live, 1)
	require.Equal(t, created.GameID, live[0].GameID)
	require.Equal(t, 2, live[0].MoveCount)
}

func TestCreateGameValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.guestToken(t, "guest_http")

	rec := s.do(t, http.MethodPost, "/api/games", token, map[string]any{"size": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/games", token, map[string]any{"difficulty": "nightmare"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestMove(t *testing.T) {
	s := newTestServer(t)
	token := s.guestToken(t, "guest_http")
	board := [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{-1, 0, 0, 0},
		{-1, 1, 1, 1},
	}

	rec := s.do(t, http.MethodPost, "/api/bot/move", "", map[string]any{"board": board, "color": -1, "depth": 3})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"board": board, "color": -1, "depth": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[suggestMoveResponse](t, rec)
	require.GreaterOrEqual(t, resp.Column, 0)
	require.Less(t, resp.Column, 4)
	require.Positive(t, resp.Nodes)

	rec = s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"board": board, "color": 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"color": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	full := [][]int{
		{-1, -1, 1, 1},
		{1, 1, -1, -1},
		{-1, -1, 1, 1},
		{1, 1, -1, -1},
	}
	rec = s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"board": full, "color": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestMoveRejectsDepthAboveCap(t *testing.T) {
	s := newTestServer(t)
	token := s.guestToken(t, "guest_http")

	board := make([][]int, 16)
	for i := range board {
		board[i] = make([]int, 16)
	}
	rec := s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"board": board, "color": 1, "depth": 12})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), domain.ErrInvalidDepth.Error())

	small := make([][]int, 8)
	for i := range small {
		small[i] = make([]int, 8)
	}
	rec = s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"board": small, "color": 1, "depth": 9})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), domain.ErrInvalidDepth.Error())
}

func TestColorsOutsideInt8AreRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.guestToken(t, "guest_http")
	board := [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	// 257 and 255 wrap to +1 and -1 as int8.
	rec := s.do(t, http.MethodPost, "/api/bot/move", token, map[string]any{"board": board, "color": 257, "depth": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/games", token, map[string]any{"size": 4, "humanColor": 255})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, ok := s.svc.Sessions.GetSessionByGuestID("guest_http")
	require.False(t, ok)
}

func TestSuggestMoveTakesWin(t *testing.T) {
	s := newTestServer(t)
	board := [][]int{
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0},
		{1, 0, 0, 0, 0},
		{1, -1, -1, 0, 0},
	}

	rec := s.do(t, http.MethodPost, "/api/bot/move", s.guestToken(t, "guest_http"), map[string]any{"board": board, "color": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[suggestMoveResponse](t, rec)
	require.Equal(t, 0, resp.Column)
	require.True(t, resp.ImmediateWin)
	require.Zero(t, resp.Searches)
}

func TestHistoryWithoutArchive(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/history", s.guestToken(t, "guest_http"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestResultFor(t *testing.T) {
	rec := domain.GameRecord{HumanColor: domain.ColorB}
	require.Equal(t, "draw", resultFor(rec))
	rec.Winner = domain.ColorB
	require.Equal(t, "win", resultFor(rec))
	rec.Winner = domain.ColorA
	require.Equal(t, "loss", resultFor(rec))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
