package bot

import (
	"fmt"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
)

const DefaultDepth = 8

// Player picks a column for color. Callers guarantee at least one legal move;
// without one ChooseColumn returns -1.
type Player interface {
	Name() string
	ChooseColumn(board domain.Board, color domain.Color) int
	Choose(board domain.Board, color domain.Color) Decision
}

// Decision is a chosen column plus the diagnostics of the search behind it.
type Decision struct {
	Column       int
	Score        int
	Nodes        int64
	Searches     int
	ImmediateWin bool
	Elapsed      time.Duration
}

type Option func(p *MinimaxPlayer)

func WithName(name string) Option {
	return func(p *MinimaxPlayer) {
		if name != "" {
			p.name = name
		}
	}
}

func WithWeights(w Weights) Option {
	return func(p *MinimaxPlayer) {
		p.engine = NewEngine(NewEvaluator(w))
	}
}

// MinimaxPlayer is the "hard" bot.
type MinimaxPlayer struct {
	name   string
	depth  int
	engine *Engine
}

func NewMinimaxPlayer(depth int, options ...Option) (*MinimaxPlayer, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDepth, depth)
	}
	p := &MinimaxPlayer{ // Default values
		name:   "Minimax",
		depth:  depth,
		engine: NewEngine(nil),
	}
	for _, option := range options {
		option(p)
	}
	return p, nil
}

func (p *MinimaxPlayer) Name() string {
	return p.name
}

func (p *MinimaxPlayer) Depth() int {
	return p.depth
}

func (p *MinimaxPlayer) ChooseColumn(board domain.Board, color domain.Color) int {
	return p.Choose(board, color).Column
}

func (p *MinimaxPlayer) Choose(board domain.Board, color domain.Color) Decision {
	start := time.Now()
	decision := Decision{Column: -1, Score: NEG_INF}
	alpha, beta := NEG_INF, POS_INF

	order := CenterFirstOrder(board.Width())
	candidates := make([]domain.Board, len(order))

	// All immediate wins are checked before the first recursive call.
	for i, col := range order {
		if !board.IsLegalMove(col) {
			continue
		}
		next := board.Clone()
		if _, err := next.DropPiece(col, color); err != nil {
			continue
		}
		if next.CompletesFourInRow(col, color) {
			decision.Column = col
			decision.Score = MINIMAX_WIN
			decision.ImmediateWin = true
			decision.Elapsed = time.Since(start)
			return decision
		}
		candidates[i] = next
	}

	for i, col := range order {
		next := candidates[i]
		if next == nil {
			continue
		}

		result := p.engine.Search(next, color.Opponent(), col, p.depth-1, color, alpha, beta)
		decision.Searches++
		decision.Nodes += result.Nodes

		// Ties keep the earlier, more central column.
		if result.Score > decision.Score {
			decision.Score = result.Score
			decision.Column = col
		}
		alpha = max(alpha, result.Score)
	}

	decision.Elapsed = time.Since(start)
	if decision.Column < 0 {
		logging.Component("bot").Warn().Str("player", p.name).Msg("no legal move available")
		return decision
	}

	logging.Component("bot").Debug().
		Str("player", p.name).
		Int("column", decision.Column).
		Int("score", decision.Score).
		Int64("nodes", decision.Nodes).
		Bool("immediate_win", decision.ImmediateWin).
		Dur("elapsed", decision.Elapsed).
		Msg("move chosen")
	return decision
}
