package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
	"github.com/iamasit07/c4-minimax/pkg/uid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotYourGame     = errors.New("game belongs to another guest")
)

// Notifier pushes server messages to a connected guest.
type Notifier interface {
	SendMessage(guestID string, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec *domain.GameRecord) error
}

type LiveStore interface {
	Save(ctx context.Context, game *domain.LiveGame) error
	Delete(ctx context.Context, gameID string) error
}

type nopNotifier struct{}

func (nopNotifier) SendMessage(string, domain.ServerMessage) error { return nil }

// NewGameRequest describes a human-vs-bot game. Zero values fall back to the manager defaults.
type NewGameRequest struct {
	GuestID    string
	Difficulty string
	Depth      int
	Size       int
	HumanColor domain.Color
}

type ManagerOptions struct {
	BoardSize  int
	Depth      int
	Difficulty string
	// BotDelay is waited before an asynchronous bot reply.
	BotDelay time.Duration
	// MaxDepth caps client-requested depths.
	MaxDepth int
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session     map[string]*GameSession // gameID → GameSession
	GuestToGame map[string]string       // guestID → gameID (for quick lookup)
	mu          sync.RWMutex
	repo        GameRepository
	live        LiveStore
	opts        ManagerOptions
	background  sync.WaitGroup
}

func NewSessionManager(repo GameRepository, live LiveStore, opts ManagerOptions) *SessionManager {
	if opts.BoardSize == 0 {
		opts.BoardSize = domain.DefaultSize
	}
	if opts.Depth == 0 {
		opts.Depth = bot.DefaultDepth
	}
	if opts.Difficulty == "" {
		opts.Difficulty = bot.DifficultyHard
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = 12
	}
	return &SessionManager{
		Session:     make(map[string]*GameSession),
		GuestToGame: make(map[string]string),
		repo:        repo,
		live:        live,
		opts:        opts,
	}
}

// CreateSession starts a new bot game for req.GuestID, abandoning any game the guest
// still has open. When the bot owns ColorA its opening move is played before returning.
func (sm *SessionManager) CreateSession(req NewGameRequest, notifier Notifier) (*GameSession, error) {
	if req.GuestID == "" {
		return nil, errors.New("guest id is required")
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = sm.opts.Difficulty
	}
	if !bot.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w %q", domain.ErrInvalidDifficulty, difficulty)
	}
	depth := req.Depth
	if depth == 0 {
		depth = sm.opts.Depth
	}
	if depth < 1 || depth > sm.opts.MaxDepth {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", domain.ErrInvalidDepth, depth, sm.opts.MaxDepth)
	}
	size := req.Size
	if size == 0 {
		size = sm.opts.BoardSize
	}
	humanColor := req.HumanColor
	if humanColor == domain.Empty {
		humanColor = domain.ColorA
	}
	if !humanColor.Valid() {
		return nil, domain.ErrInvalidColor
	}

	g, err := domain.NewGame(size)
	if err != nil {
		return nil, err
	}
	player, err := bot.NewPlayer(difficulty, depth)
	if err != nil {
		return nil, err
	}

	sm.abandonExisting(req.GuestID)

	gs := &GameSession{
		GameID:     uid.GenerateGameID(),
		GuestID:    req.GuestID,
		BotName:    player.Name(),
		Difficulty: difficulty,
		Depth:      depth,
		HumanColor: humanColor,
		BotColor:   humanColor.Opponent(),
		Game:       g,
		CreatedAt:  time.Now(),
		player:     player,
		notifier:   notifier,
		manager:    sm,
	}

	sm.mu.Lock()
	sm.Session[gs.GameID] = gs
	sm.GuestToGame[req.GuestID] = gs.GameID
	sm.mu.Unlock()

	logging.Component("session").Info().Str("game_id", gs.GameID).Str("guest", req.GuestID).
		Str("bot", gs.BotName).Int("depth", depth).Int("size", size).
		Str("human_color", humanColor.String()).Msg("created session")

	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.notifier.SendMessage(gs.GuestID, domain.ServerMessage{
		Type:        "game_start",
		GameID:      gs.GameID,
		Opponent:    gs.BotName,
		YourColor:   int(gs.HumanColor),
		CurrentTurn: int(gs.Game.CurrentPlayer),
		Board:       gs.Game.Board.Rows(),
	})

	if gs.Game.CurrentPlayer == gs.BotColor {
		if _, err := gs.botMoveLocked(); err != nil {
			return nil, err
		}
	} else {
		gs.snapshotAsync()
	}
	return gs, nil
}

func (sm *SessionManager) abandonExisting(guestID string) {
	existing, ok := sm.GetSessionByGuestID(guestID)
	if !ok {
		return
	}
	if err := existing.Abandon(guestID); err != nil && !errors.Is(err, domain.ErrGameFinished) {
		logging.Component("session").Warn().Err(err).Str("game_id", existing.GameID).Msg("failed to abandon previous game")
	}
	sm.RemoveSession(existing.GameID)
}

func (sm *SessionManager) GetSessionByGuestID(guestID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.GuestToGame[guestID]
	if !exists {
		return nil, false
	}

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

// GetOwnedSession returns the session only if guestID owns it.
func (sm *SessionManager) GetOwnedSession(gameID, guestID string) (*GameSession, error) {
	session, ok := sm.GetSessionByGameID(gameID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.GuestID != guestID {
		return nil, ErrNotYourGame
	}
	return session, nil
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.removeSessionLocked(gameID)
}

// removeSessionLocked removes session from maps without acquiring lock (caller must hold it)
func (sm *SessionManager) removeSessionLocked(gameID string) error {
	session, exists := sm.Session[gameID]
	if !exists {
		return ErrSessionNotFound
	}

	logging.Component("session").Debug().Str("game_id", gameID).Msg("removing session")

	if sm.GuestToGame[session.GuestID] == gameID {
		delete(sm.GuestToGame, session.GuestID)
	}
	delete(sm.Session, gameID)
	return nil
}

// Snapshots returns the state of every in-memory session, newest first.
func (sm *SessionManager) Snapshots() []domain.LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	games := make([]domain.LiveGame, 0, len(sessions))
	for _, s := range sessions {
		games = append(games, s.Snapshot())
	}
	sortByUpdated(games)
	return games
}

func sortByUpdated(games []domain.LiveGame) {
	slices.SortFunc(games, func(a, b domain.LiveGame) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// CleanupOldSessions drops sessions finished over an hour ago or started over a day ago.
func (sm *SessionManager) CleanupOldSessions() int {
	return sm.cleanupOlderThan(time.Now(), time.Hour, 24*time.Hour)
}

func (sm *SessionManager) cleanupOlderThan(now time.Time, finishedTTL, activeTTL time.Duration) int {
	// Session locks are held during bot searches, so they are never taken under sm.mu.
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	var stale []*GameSession
	for _, session := range sessions {
		session.mu.Lock()
		finished := session.Game.IsFinished()
		expired := (finished && now.Sub(session.FinishedAt) > finishedTTL) ||
			(!finished && now.Sub(session.CreatedAt) > activeTTL)
		session.mu.Unlock()

		if expired {
			stale = append(stale, session)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	for _, session := range stale {
		if sm.Session[session.GameID] != session {
			continue
		}
		sm.removeSessionLocked(session.GameID)
		count++
	}

	if count > 0 {
		logging.Component("session").Info().Int("removed", count).Msg("memory cleanup: removed stale game sessions")
	}
	return count
}

func (sm *SessionManager) goBackground(fn func()) {
	sm.background.Add(1)
	go func() {
		defer sm.background.Done()
		fn()
	}()
}

// Wait blocks until pending bot replies and archive writes have finished.
func (sm *SessionManager) Wait() {
	sm.background.Wait()
}
