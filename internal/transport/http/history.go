package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	"github.com/iamasit07/c4-minimax/internal/transport/http/middleware"
)

type HistoryHandler struct {
	Service *game.Service
}

func NewHistoryHandler(svc *game.Service) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

type gameHistoryItem struct {
	ID         string    `json:"id"`
	Opponent   string    `json:"opponent"`
	Difficulty string    `json:"difficulty"`
	Depth      int       `json:"depth"`
	Size       int       `json:"size"`
	Result     string    `json:"result"` // "win", "loss", "draw"
	EndReason  string    `json:"endReason"`
	MovesCount int       `json:"movesCount"`
	TotalNodes int64     `json:"totalNodes"`
	CreatedAt  time.Time `json:"createdAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

func resultFor(rec domain.GameRecord) string {
	switch rec.Winner {
	case domain.Empty:
		return "draw"
	case rec.HumanColor:
		return "win"
	default:
		return "loss"
	}
}

// GetHistory lists the calling guest's finished games, newest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	records, err := h.Service.History(c.Request.Context(), middleware.GuestID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for _, rec := range records {
		history = append(history, gameHistoryItem{
			ID:         rec.GameID,
			Opponent:   rec.BotName,
			Difficulty: rec.Difficulty,
			Depth:      rec.Depth,
			Size:       rec.Size,
			Result:     resultFor(rec),
			EndReason:  rec.Reason,
			MovesCount: len(rec.Moves),
			TotalNodes: rec.TotalNodes,
			CreatedAt:  rec.CreatedAt,
			FinishedAt: rec.FinishedAt,
		})
	}

	c.JSON(http.StatusOK, history)
}
