package bot

import (
	"math"

	"github.com/iamasit07/c4-minimax/internal/domain"
)

const (
	MINIMAX_WIN  = 100000000
	MINIMAX_LOSS = -MINIMAX_WIN
	MINIMAX_DRAW = 0

	NEG_INF = math.MinInt32
	POS_INF = math.MaxInt32
)

// Result is the value of one search together with the leaves it evaluated.
type Result struct {
	Score int
	Nodes int64
}

// Engine runs a depth-limited minimax with alpha-beta pruning. It keeps no state
// between calls, so one Engine can serve several games at once.
type Engine struct {
	evaluator *Evaluator
}

func NewEngine(evaluator *Evaluator) *Engine {
	if evaluator == nil {
		evaluator = NewEvaluator(DefaultWeights())
	}
	return &Engine{evaluator: evaluator}
}

func (e *Engine) Evaluator() *Evaluator {
	return e.evaluator
}

// Search scores board for root, where active is about to move and lastColumn is
// where the previous mover (-active) just played. Pass -1 when there is no such move.
func (e *Engine) Search(board domain.Board, active domain.Color, lastColumn, depth int, root domain.Color, alpha, beta int) Result {
	var nodes int64
	score := e.search(board, active, lastColumn, depth, root, alpha, beta, &nodes)
	return Result{Score: score, Nodes: nodes}
}

func (e *Engine) search(board domain.Board, active domain.Color, lastColumn, depth int, root domain.Color, alpha, beta int, nodes *int64) int {
	// A win can land on the last free cell, so this goes before the draw check.
	previous := active.Opponent()
	if board.CompletesFourInRow(lastColumn, previous) {
		if previous == root {
			return MINIMAX_WIN
		}
		return MINIMAX_LOSS
	}

	if !board.HasLegalMove() {
		return MINIMAX_DRAW
	}

	if depth <= 0 {
		*nodes++
		return e.evaluator.Evaluate(board, root)
	}

	if active == root {
		maxEval := NEG_INF
		for _, col := range CenterFirstOrder(board.Width()) {
			if !board.IsLegalMove(col) {
				continue
			}
			next := board.Clone()
			if _, err := next.DropPiece(col, active); err != nil {
				continue
			}

			eval := e.search(next, active.Opponent(), col, depth-1, root, alpha, beta, nodes)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)

			if alpha >= beta {
				break // Beta cutoff
			}
		}
		return maxEval
	}

	minEval := POS_INF
	for _, col := range CenterFirstOrder(board.Width()) {
		if !board.IsLegalMove(col) {
			continue
		}
		next := board.Clone()
		if _, err := next.DropPiece(col, active); err != nil {
			continue
		}

		eval := e.search(next, active.Opponent(), col, depth-1, root, alpha, beta, nodes)
		minEval = min(minEval, eval)
		beta = min(beta, eval)

		if beta <= alpha {
			break // Alpha cutoff
		}
	}
	return minEval
}
