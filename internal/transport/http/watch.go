package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/internal/service/game"
)

type WatchHandler struct {
	Service *game.Service
}

func NewWatchHandler(svc *game.Service) *WatchHandler {
	return &WatchHandler{Service: svc}
}

type liveGameResponse struct {
	GameID     string    `json:"gameId"`
	Bot        string    `json:"bot"`
	Difficulty string    `json:"difficulty"`
	Size       int       `json:"size"`
	MoveCount  int       `json:"moveCount"`
	Board      [][]int   `json:"board"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// GetLiveGames returns the games currently in progress
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	activeGames, err := h.Service.LiveGames(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]liveGameResponse, 0, len(activeGames))
	for _, g := range activeGames {
		response = append(response, liveGameResponse{
			GameID:     g.GameID,
			Bot:        g.BotName,
			Difficulty: g.Difficulty,
			Size:       g.Size,
			MoveCount:  len(g.Moves),
			Board:      g.Board,
			UpdatedAt:  g.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
