package bot

import (
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
)

// GreedyPlayer looks one ply ahead and keeps the column the evaluator likes best.
type GreedyPlayer struct {
	name      string
	evaluator *Evaluator
}

func NewGreedyPlayer(evaluator *Evaluator) *GreedyPlayer {
	if evaluator == nil {
		evaluator = NewEvaluator(DefaultWeights())
	}
	return &GreedyPlayer{
		name:      domain.GetBotName("medium"),
		evaluator: evaluator,
	}
}

func (p *GreedyPlayer) Name() string {
	return p.name
}

func (p *GreedyPlayer) ChooseColumn(board domain.Board, color domain.Color) int {
	return p.Choose(board, color).Column
}

func (p *GreedyPlayer) Choose(board domain.Board, color domain.Color) Decision {
	start := time.Now()
	decision := Decision{Column: -1, Score: NEG_INF}

	for _, col := range CenterFirstOrder(board.Width()) {
		if !board.IsLegalMove(col) {
			continue
		}
		next, won, err := domain.SimulateMove(board, col, color)
		if err != nil {
			continue
		}
		if won {
			return Decision{Column: col, Score: MINIMAX_WIN, ImmediateWin: true, Elapsed: time.Since(start)}
		}

		// After our move it is the opponent's turn, so any threat it has is real.
		score := p.evaluator.Evaluate(next, color)
		decision.Nodes++
		if score > decision.Score {
			decision.Score = score
			decision.Column = col
		}
	}

	decision.Elapsed = time.Since(start)
	return decision
}
