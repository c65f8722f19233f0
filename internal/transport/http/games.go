package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	"github.com/iamasit07/c4-minimax/internal/transport/http/middleware"
)

type GameHandler struct {
	Service  *game.Service
	Notifier game.Notifier
}

// NewGameHandler wires REST games to notifier so open websockets see them too.
func NewGameHandler(svc *game.Service, notifier game.Notifier) *GameHandler {
	return &GameHandler{Service: svc, Notifier: notifier}
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
	Depth      int    `json:"depth"`
	Size       int    `json:"size"`
	HumanColor int    `json:"humanColor"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	humanColor, err := domain.ColorFromInt(req.HumanColor)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.Service.Sessions.CreateSession(game.NewGameRequest{
		GuestID:    middleware.GuestID(c),
		Difficulty: req.Difficulty,
		Depth:      req.Depth,
		Size:       req.Size,
		HumanColor: humanColor,
	}, h.Notifier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

func (h *GameHandler) GetGame(c *gin.Context) {
	view, err := h.Service.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PlayMove applies the guest's move and answers with the bot's reply.
func (h *GameHandler) PlayMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guestID := middleware.GuestID(c)
	session, err := h.Service.Sessions.GetOwnedSession(c.Param("id"), guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := session.PlayTurn(guestID, *req.Column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
