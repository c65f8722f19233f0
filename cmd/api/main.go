package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/c4-minimax/internal/config"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/iamasit07/c4-minimax/internal/repository/postgres"
	"github.com/iamasit07/c4-minimax/internal/repository/redis"
	"github.com/iamasit07/c4-minimax/internal/service/cleanup"
	"github.com/iamasit07/c4-minimax/internal/service/game"
	transportHttp "github.com/iamasit07/c4-minimax/internal/transport/http"
	"github.com/iamasit07/c4-minimax/internal/transport/websocket"
	"github.com/iamasit07/c4-minimax/pkg/auth"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../.env")
	}

	cfg := config.LoadConfig()
	config.AppConfig = cfg
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Msg("No .env file found, using environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Persistence: Postgres archive is optional
	var (
		repo    game.GameRepository
		archive game.GameArchive
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		runMigrations(db)

		gameRepo := postgres.NewGameRepo(db)
		repo, archive = gameRepo, gameRepo
	} else {
		logging.Component("postgres").Warn().Msg("DATABASE_URL not set, finished games will not be archived")
	}

	// 2. Live snapshots: Redis is optional too
	var (
		liveStore  game.LiveStore
		liveReader game.LiveReader
	)
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		store := redis.NewLiveStore(redisClient, cfg.LiveGameTTL)
		liveStore, liveReader = store, store
	}

	// 3. Services
	sessionManager := game.NewSessionManager(repo, liveStore, game.ManagerOptions{
		BoardSize:  cfg.BoardSize,
		Depth:      cfg.BotDepth,
		Difficulty: cfg.BotDifficulty,
		BotDelay:   500 * time.Millisecond,
		MaxDepth:   config.MaxBotDepth,
	})
	gameService := game.NewService(sessionManager, archive, liveReader)
	gameService.AnalysisMaxDepth = cfg.AnalysisMaxDepth
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.GuestTokenTTL)

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, time.Hour)
	go cleanupWorker.Start(ctx)

	// 5. Transport
	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, sessionManager, tokens, cfg.AllowedOrigins)

	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		Service:        gameService,
		Tokens:         tokens,
		Notifier:       connManager,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Int("size", cfg.BoardSize).Int("depth", cfg.BotDepth).
			Str("difficulty", cfg.BotDifficulty).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Let pending bot replies and archive writes land before the stores close.
	sessionManager.Wait()
	log.Info().Msg("server exited gracefully")
}

func runMigrations(db *sql.DB) {
	logging.Component("postgres").Info().Msg("running database migrations...")
	if err := postgres.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	logging.Component("postgres").Info().Msg("database migration completed successfully")
}
