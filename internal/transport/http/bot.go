package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/game"
)

type BotHandler struct {
	Service *game.Service
}

func NewBotHandler(svc *game.Service) *BotHandler {
	return &BotHandler{Service: svc}
}

type suggestMoveRequest struct {
	Board      [][]int `json:"board" binding:"required"`
	Color      int     `json:"color" binding:"required"`
	Difficulty string  `json:"difficulty"`
	Depth      int     `json:"depth"`
}

type suggestMoveResponse struct {
	Column       int   `json:"column"`
	Score        int   `json:"score"`
	Nodes        int64 `json:"nodes"`
	Searches     int   `json:"searches"`
	ImmediateWin bool  `json:"immediateWin"`
	ElapsedMs    int64 `json:"elapsedMs"`
}

// SuggestMove returns the bot's choice for an arbitrary position.
func (h *BotHandler) SuggestMove(c *gin.Context) {
	var req suggestMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	color, err := domain.ColorFromInt(req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	decision, err := h.Service.SuggestMove(game.SuggestRequest{
		Rows:       req.Board,
		Color:      color,
		Difficulty: req.Difficulty,
		Depth:      req.Depth,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestMoveResponse{
		Column:       decision.Column,
		Score:        decision.Score,
		Nodes:        decision.Nodes,
		Searches:     decision.Searches,
		ImmediateWin: decision.ImmediateWin,
		ElapsedMs:    decision.Elapsed.Milliseconds(),
	})
}
