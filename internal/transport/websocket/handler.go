package websocket

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	"github.com/iamasit07/c4-minimax/pkg/auth"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Tokens         *auth.TokenIssuer
	Upgrader       websocket.Upgrader
}

// NewHandler creates a WebSocket handler. An empty allowedOrigins accepts any origin.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, tokens *auth.TokenIssuer, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Tokens:         tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Component("ws").Warn().Err(err).Msg("upgrade error")
		return
	}

	h.handleConnection(conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// 1. Wait for Initialization (Auth)
	guestID, ok := h.initConnection(conn)
	if !ok {
		conn.Close()
		return
	}

	// Keep-alive pinger
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	// 2. Cleanup on exit. The game itself stays in memory so the guest can reconnect.
	defer func() {
		close(done)
		logging.Component("ws").Debug().Str("guest", guestID).Msg("connection closed")
		h.ConnManager.RemoveConnectionIfMatching(guestID, conn)
	}()

	// 3. Main Message Loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Component("ws").Warn().Err(err).Str("guest", guestID).Msg("guest disconnected unexpectedly")
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Component("ws").Debug().Err(err).Msg("invalid message format")
			h.ConnManager.sendError(guestID, "invalid message format")
			continue
		}

		h.processMessage(guestID, msg)
	}
}

func (h *Handler) initConnection(conn *websocket.Conn) (string, bool) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		logging.Component("ws").Debug().Err(err).Msg("read error during init")
		return "", false
	}

	var message domain.ClientMessage
	if err := json.Unmarshal(data, &message); err != nil || message.Type != "init" || message.Token == "" {
		logging.Component("ws").Debug().Msg("missing initialization or token")
		conn.WriteJSON(domain.ErrorMessage{Type: "error", Message: "expected init message with token"})
		return "", false
	}

	claims, err := h.Tokens.ValidateGuestToken(message.Token)
	if err != nil {
		logging.Component("ws").Debug().Err(err).Msg("invalid token during init")
		conn.WriteJSON(domain.ErrorMessage{Type: "error", Message: "invalid or expired token"})
		return "", false
	}

	guestID := claims.GuestID
	replaced := h.ConnManager.IsConnected(guestID)
	h.ConnManager.AddConnection(guestID, conn)
	logging.Component("ws").Info().Str("guest", guestID).Bool("replaced", replaced).
		Int("connections", h.ConnManager.Count()).Msg("connection initialized")

	h.ConnManager.SendMessage(guestID, domain.ServerMessage{Type: "connected"})
	if session, exists := h.SessionManager.GetSessionByGuestID(guestID); exists {
		snapshot := session.Snapshot()
		if snapshot.Status == domain.StatusActive {
			h.ConnManager.SendMessage(guestID, domain.ServerMessage{
				Type:        "game_state",
				GameID:      snapshot.GameID,
				Opponent:    snapshot.BotName,
				YourColor:   int(snapshot.HumanColor),
				CurrentTurn: int(snapshot.CurrentTurn),
				Board:       snapshot.Board,
			})
		}
	}
	return guestID, true
}

// processMessage routes specific actions
func (h *Handler) processMessage(guestID string, msg domain.ClientMessage) {
	switch msg.Type {
	case "new_game":
		humanColor, err := domain.ColorFromInt(msg.HumanColor)
		if err != nil {
			h.ConnManager.sendError(guestID, err.Error())
			return
		}
		_, err = h.SessionManager.CreateSession(game.NewGameRequest{
			GuestID:    guestID,
			Difficulty: msg.Difficulty,
			Depth:      msg.Depth,
			Size:       msg.Size,
			HumanColor: humanColor,
		}, h.ConnManager)
		if err != nil {
			h.ConnManager.sendError(guestID, err.Error())
		}

	case "make_move":
		gameSession, exists := h.SessionManager.GetSessionByGuestID(guestID)
		if !exists {
			h.ConnManager.sendError(guestID, "game not found")
			return
		}
		if err := gameSession.HandleMove(guestID, msg.Column); err != nil {
			h.ConnManager.sendError(guestID, err.Error())
		}

	case "abandon_game":
		gameSession, exists := h.SessionManager.GetSessionByGuestID(guestID)
		if !exists {
			return
		}
		if err := gameSession.Abandon(guestID); err != nil {
			h.ConnManager.sendError(guestID, err.Error())
		}

	default:
		h.ConnManager.sendError(guestID, "unknown message type: "+msg.Type)
	}
}
