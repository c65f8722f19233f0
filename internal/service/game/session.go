package game

import (
	"context"
	"sync"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
)

const (
	ReasonFourInRow = "four_in_row"
	ReasonDraw      = "draw"
	ReasonAbandoned = "abandoned"

	storeTimeout = 5 * time.Second
)

// GameSession is one human-vs-bot game held in memory.
type GameSession struct {
	GameID     string
	GuestID    string
	BotName    string
	Difficulty string
	Depth      int
	HumanColor domain.Color
	BotColor   domain.Color
	Game       *domain.Game
	Reason     string
	TotalNodes int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
	mu         sync.Mutex
	player     bot.Player
	notifier   Notifier
	manager    *SessionManager

	// version orders background store writes; older writes are dropped.
	version       int64
	storeMu       sync.Mutex
	storedVersion int64
}

// BotMove is the bot's reply together with its search diagnostics.
type BotMove struct {
	Column  int   `json:"column"`
	Row     int   `json:"row"`
	Score   int   `json:"score"`
	Nodes   int64 `json:"nodes"`
	Elapsed int64 `json:"elapsedMs"`
}

// TurnResult is the outcome of a synchronous human move plus bot reply.
type TurnResult struct {
	Column int             `json:"column"`
	Row    int             `json:"row"`
	Bot    *BotMove        `json:"bot,omitempty"`
	Game   domain.LiveGame `json:"game"`
}

// HandleMove applies the guest's move and lets the bot reply in the background.
func (gs *GameSession) HandleMove(guestID string, column int) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, err := gs.humanMoveLocked(guestID, column); err != nil {
		return err
	}

	// TRIGGER BOT MOVE if applicable
	if !gs.Game.IsFinished() && gs.Game.CurrentPlayer == gs.BotColor {
		delay := gs.manager.opts.BotDelay
		gs.manager.goBackground(func() {
			if delay > 0 {
				time.Sleep(delay)
			}
			if _, err := gs.HandleBotMove(); err != nil {
				logging.Component("bot").Error().Err(err).Str("game_id", gs.GameID).Msg("error handling bot move")
			}
		})
	}
	return nil
}

// PlayTurn applies the guest's move and, unless the game ended, the bot's reply.
func (gs *GameSession) PlayTurn(guestID string, column int) (*TurnResult, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	row, err := gs.humanMoveLocked(guestID, column)
	if err != nil {
		return nil, err
	}

	result := &TurnResult{Column: column, Row: row}
	if !gs.Game.IsFinished() && gs.Game.CurrentPlayer == gs.BotColor {
		if result.Bot, err = gs.botMoveLocked(); err != nil {
			return nil, err
		}
	}
	result.Game = gs.snapshotLocked()
	return result, nil
}

// HandleBotMove plays the bot's move if it is still the bot's turn.
func (gs *GameSession) HandleBotMove() (*BotMove, error) {
	// Acquire lock since this is entry point from goroutine
	gs.mu.Lock()
	defer gs.mu.Unlock()

	// Verify it's actually bot's turn (race condition check)
	if gs.Game.IsFinished() || gs.Game.CurrentPlayer != gs.BotColor {
		return nil, nil
	}
	return gs.botMoveLocked()
}

// Abandon ends the game as a loss for the guest.
func (gs *GameSession) Abandon(guestID string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if guestID != gs.GuestID {
		return ErrNotYourGame
	}
	if err := gs.Game.Resign(gs.HumanColor); err != nil {
		return err
	}

	logging.Component("session").Info().Str("game_id", gs.GameID).Str("guest", guestID).Msg("game abandoned")
	gs.finishLocked(ReasonAbandoned)
	return nil
}

func (gs *GameSession) humanMoveLocked(guestID string, column int) (int, error) {
	if guestID != gs.GuestID {
		return -1, ErrNotYourGame
	}

	row, err := gs.Game.MakeMove(gs.HumanColor, column)
	if err != nil {
		return -1, err
	}
	gs.UpdatedAt = time.Now()

	gs.notifier.SendMessage(gs.GuestID, domain.ServerMessage{
		Type:     "move_made",
		GameID:   gs.GameID,
		Column:   column,
		Row:      row,
		Player:   int(gs.HumanColor),
		Board:    gs.Game.Board.Rows(),
		NextTurn: int(gs.Game.CurrentPlayer),
	})

	gs.afterMoveLocked()
	return row, nil
}

func (gs *GameSession) botMoveLocked() (*BotMove, error) {
	decision := gs.player.Choose(gs.Game.Board, gs.BotColor)
	if decision.Column < 0 {
		return nil, domain.ErrNoLegalMove
	}

	row, err := gs.Game.MakeMove(gs.BotColor, decision.Column)
	if err != nil {
		return nil, err
	}
	gs.TotalNodes += decision.Nodes
	gs.UpdatedAt = time.Now()

	gs.notifier.SendMessage(gs.GuestID, domain.ServerMessage{
		Type:     "move_made",
		GameID:   gs.GameID,
		Column:   decision.Column,
		Row:      row,
		Player:   int(gs.BotColor),
		Board:    gs.Game.Board.Rows(),
		NextTurn: int(gs.Game.CurrentPlayer),
		Nodes:    decision.Nodes,
		Score:    decision.Score,
	})

	gs.afterMoveLocked()
	return &BotMove{
		Column:  decision.Column,
		Row:     row,
		Score:   decision.Score,
		Nodes:   decision.Nodes,
		Elapsed: decision.Elapsed.Milliseconds(),
	}, nil
}

func (gs *GameSession) afterMoveLocked() {
	switch gs.Game.Status {
	case domain.StatusWon:
		gs.finishLocked(ReasonFourInRow)
	case domain.StatusDraw:
		gs.finishLocked(ReasonDraw)
	default:
		gs.snapshotAsync()
	}
}

func (gs *GameSession) winnerName() string {
	switch gs.Game.Winner {
	case gs.HumanColor:
		return gs.GuestID
	case gs.BotColor:
		return gs.BotName
	default:
		return "draw"
	}
}

func (gs *GameSession) finishLocked(reason string) {
	gs.Reason = reason
	gs.FinishedAt = time.Now()
	gs.UpdatedAt = gs.FinishedAt

	gs.notifier.SendMessage(gs.GuestID, domain.ServerMessage{
		Type:   "game_over",
		GameID: gs.GameID,
		Winner: gs.winnerName(),
		Reason: reason,
		Board:  gs.Game.Board.Rows(),
		Nodes:  gs.TotalNodes,
	})

	logging.Component("game").Info().Str("game_id", gs.GameID).Str("winner", gs.winnerName()).
		Str("reason", reason).Int("moves", gs.Game.MoveCount).Int64("nodes", gs.TotalNodes).Msg("game finished")

	gs.saveGameAsync(gs.recordLocked())
}

func (gs *GameSession) recordLocked() *domain.GameRecord {
	return &domain.GameRecord{
		GameID:     gs.GameID,
		GuestID:    gs.GuestID,
		BotName:    gs.BotName,
		Difficulty: gs.Difficulty,
		Depth:      gs.Depth,
		Size:       gs.Game.Board.Width(),
		HumanColor: gs.HumanColor,
		Winner:     gs.Game.Winner,
		Status:     gs.Game.Status,
		Reason:     gs.Reason,
		Moves:      append([]int(nil), gs.Game.Moves...),
		Board:      gs.Game.Board.Rows(),
		TotalNodes: gs.TotalNodes,
		CreatedAt:  gs.CreatedAt,
		FinishedAt: gs.FinishedAt,
	}
}

// Snapshot returns the current state of the session.
func (gs *GameSession) Snapshot() domain.LiveGame {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() domain.LiveGame {
	updated := gs.UpdatedAt
	if updated.IsZero() {
		updated = gs.CreatedAt
	}
	return domain.LiveGame{
		GameID:      gs.GameID,
		GuestID:     gs.GuestID,
		BotName:     gs.BotName,
		Difficulty:  gs.Difficulty,
		Depth:       gs.Depth,
		Size:        gs.Game.Board.Width(),
		HumanColor:  gs.HumanColor,
		CurrentTurn: gs.Game.CurrentPlayer,
		Status:      gs.Game.Status,
		Winner:      gs.Game.Winner,
		Moves:       append([]int(nil), gs.Game.Moves...),
		Board:       gs.Game.Board.Rows(),
		TotalNodes:  gs.TotalNodes,
		UpdatedAt:   updated,
	}
}

// Writes the live snapshot in background so that moves are not blocked on Redis
func (gs *GameSession) snapshotAsync() {
	live := gs.manager.live
	if live == nil {
		return
	}
	snapshot := gs.snapshotLocked()
	gs.version++
	version := gs.version
	gs.manager.goBackground(func() {
		if !gs.claimStoreWrite(version) {
			return
		}
		defer gs.storeMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := live.Save(ctx, &snapshot); err != nil {
			logging.Component("redis").Warn().Err(err).Str("game_id", snapshot.GameID).Msg("failed to save live snapshot")
		}
	})
}

// Saves game data to database in background to avoid blocking game_over messages
func (gs *GameSession) saveGameAsync(rec *domain.GameRecord) {
	repo, live := gs.manager.repo, gs.manager.live
	gs.version++
	version := gs.version
	gs.manager.goBackground(func() {
		if !gs.claimStoreWrite(version) {
			return
		}
		defer gs.storeMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if live != nil {
			if err := live.Delete(ctx, rec.GameID); err != nil {
				logging.Component("redis").Warn().Err(err).Str("game_id", rec.GameID).Msg("failed to drop live snapshot")
			}
		}
		if repo == nil {
			return
		}
		if err := repo.SaveGame(ctx, rec); err != nil {
			logging.Component("game").Error().Err(err).Str("game_id", rec.GameID).Msg("error saving game")
			return
		}
		logging.Component("game").Debug().Str("game_id", rec.GameID).Msg("game saved successfully")
	})
}

// claimStoreWrite locks storeMu for a write of version, or reports false
// when a newer write already landed.
func (gs *GameSession) claimStoreWrite(version int64) bool {
	gs.storeMu.Lock()
	if version < gs.storedVersion {
		gs.storeMu.Unlock()
		return false
	}
	gs.storedVersion = version
	return true
}
