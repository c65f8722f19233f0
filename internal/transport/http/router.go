package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	"github.com/iamasit07/c4-minimax/internal/transport/http/middleware"
	"github.com/iamasit07/c4-minimax/pkg/auth"
)

type RouterDeps struct {
	Service        *game.Service
	Tokens         *auth.TokenIssuer
	Notifier       game.Notifier
	AllowedOrigins []string
	Production     bool
	// WebSocket is mounted on /ws when set.
	WebSocket http.HandlerFunc
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	guestHandler := NewGuestHandler(deps.Tokens, deps.Production)
	botHandler := NewBotHandler(deps.Service)
	gameHandler := NewGameHandler(deps.Service, deps.Notifier)
	historyHandler := NewHistoryHandler(deps.Service)
	watchHandler := NewWatchHandler(deps.Service)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public Routes
	router.POST("/api/guest", guestHandler.IssueGuest)
	router.GET("/api/games/:id", gameHandler.GetGame)
	router.GET("/api/watch", watchHandler.GetLiveGames)

	// Guest Routes
	guest := router.Group("/api")
	guest.Use(middleware.GuestAuth(deps.Tokens))
	{
		guest.POST("/bot/move", botHandler.SuggestMove)
		guest.POST("/games", gameHandler.CreateGame)
		guest.POST("/games/:id/moves", gameHandler.PlayMove)
		guest.GET("/history", historyHandler.GetHistory)
	}

	// WebSocket Route (auth handled inside the WS handler itself)
	if deps.WebSocket != nil {
		router.GET("/ws", gin.WrapF(deps.WebSocket))
	}

	return router
}
