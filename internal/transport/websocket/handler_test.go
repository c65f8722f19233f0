package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	"github.com/iamasit07/c4-minimax/pkg/auth"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *auth.TokenIssuer, *game.SessionManager) {
	t.Helper()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	sm := game.NewSessionManager(nil, nil, game.ManagerOptions{Depth: 2})
	h := NewHandler(NewConnectionManager(), sm, tokens, nil)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv, tokens, sm
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg domain.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPlayAgainstBotOverWebSocket(t *testing.T) {
	srv, tokens, sm := newTestServer(t)
	token, err := tokens.GenerateGuestToken("guest_ws")
	require.NoError(t, err)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "init", Token: token}))
	require.Equal(t, "connected", readMessage(t, conn).Type)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "new_game", Difficulty: "medium", Size: 5}))
	start := readMessage(t, conn)
	require.Equal(t, "game_start", start.Type)
	require.Equal(t, int(domain.ColorA), start.YourColor)
	require.Len(t, start.Board, 5)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 0}))
	human := readMessage(t, conn)
	require.Equal(t, "move_made", human.Type)
	require.Equal(t, int(domain.ColorA), human.Player)
	require.Equal(t, 0, human.Column)

	reply := readMessage(t, conn)
	require.Equal(t, "move_made", reply.Type)
	require.Equal(t, int(domain.ColorB), reply.Player)
	require.Equal(t, int(domain.ColorA), reply.NextTurn)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "abandon_game"}))
	over := readMessage(t, conn)
	require.Equal(t, "game_over", over.Type)
	require.Equal(t, game.ReasonAbandoned, over.Reason)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "dance"}))
	require.Equal(t, "error", readMessage(t, conn).Type)
	sm.Wait()
}

func TestResumeSendsGameState(t *testing.T) {
	srv, tokens, sm := newTestServer(t)
	token, err := tokens.GenerateGuestToken("guest_resume")
	require.NoError(t, err)

	_, err = sm.CreateSession(game.NewGameRequest{GuestID: "guest_resume", Size: 4}, nil)
	require.NoError(t, err)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "init", Token: token}))
	require.Equal(t, "connected", readMessage(t, conn).Type)

	state := readMessage(t, conn)
	require.Equal(t, "game_state", state.Type)
	require.Len(t, state.Board, 4)
	sm.Wait()
}

func TestInitRejectsBadToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "init", Token: "garbage"}))
	msg := readMessage(t, conn)
	require.Equal(t, "error", msg.Type)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestMoveWithoutGame(t *testing.T) {
	srv, tokens, _ := newTestServer(t)
	token, err := tokens.GenerateGuestToken("guest_nogame")
	require.NoError(t, err)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "init", Token: token}))
	require.Equal(t, "connected", readMessage(t, conn).Type)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 1}))
	msg := readMessage(t, conn)
	require.Equal(t, "error", msg.Type)
	require.Equal(t, "game not found", msg.Message)
}

func TestConnectionTracking(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	cm := NewConnectionManager()
	h := NewHandler(cm, game.NewSessionManager(nil, nil, game.ManagerOptions{Depth: 2}), tokens, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	token, err := tokens.GenerateGuestToken("guest_tracked")
	require.NoError(t, err)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "init", Token: token}))
	require.Equal(t, "connected", readMessage(t, conn).Type)
	require.True(t, cm.IsConnected("guest_tracked"))
	require.Equal(t, 1, cm.Count())

	conn.Close()
	require.Eventually(t, func() bool {
		return !cm.IsConnected("guest_tracked")
	}, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, cm.Count())
}

func TestNewGameRejectsWrappingColor(t *testing.T) {
	srv, tokens, sm := newTestServer(t)
	token, err := tokens.GenerateGuestToken("guest_color")
	require.NoError(t, err)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "init", Token: token}))
	require.Equal(t, "connected", readMessage(t, conn).Type)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "new_game", Size: 4, HumanColor: 255}))
	msg := readMessage(t, conn)
	require.Equal(t, "error", msg.Type)
	require.Equal(t, domain.ErrInvalidColor.Error(), msg.Message)

	_, exists := sm.GetSessionByGuestID("guest_color")
	require.False(t, exists)
}
