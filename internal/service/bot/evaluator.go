package bot

import (
	"github.com/iamasit07/c4-minimax/internal/domain"
)

const (
	// Immediate threat found at a leaf, returned instead of the weighted sum.
	THREAT_BONUS = 90000000

	THREE_IN_ROW_WEIGHT = 50000
	TWO_IN_ROW_WEIGHT   = 1000
	CENTER_WEIGHT       = 100

	windowLength = 4
)

// Weights tunes the heuristic. ThreeInRow must stay below MINIMAX_WIN/10.
type Weights struct {
	ThreeInRow int
	TwoInRow   int
	Center     int
	Threat     int
}

func DefaultWeights() Weights {
	return Weights{
		ThreeInRow: THREE_IN_ROW_WEIGHT,
		TwoInRow:   TWO_IN_ROW_WEIGHT,
		Center:     CENTER_WEIGHT,
		Threat:     THREAT_BONUS,
	}
}

// Evaluator scores non-terminal positions; terminal detection is left to the caller.
type Evaluator struct {
	weights Weights
}

func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w}
}

func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Evaluate returns a score for board, positive when it favours perspective.
func (e *Evaluator) Evaluate(board domain.Board, perspective domain.Color) int {
	opponent := perspective.Opponent()

	// Threats replace the weighted sum entirely.
	if canWinNow(board, perspective) {
		return e.weights.Threat
	}
	if canWinNow(board, opponent) {
		return -e.weights.Threat
	}

	return e.LineBalance(board, perspective) + centerControl(board, perspective)*e.weights.Center
}

// LineBalance is the open-line part of the heuristic on its own.
func (e *Evaluator) LineBalance(board domain.Board, perspective domain.Color) int {
	opponent := perspective.Opponent()
	return (countLines(board, perspective, 3)-countLines(board, opponent, 3))*e.weights.ThreeInRow +
		(countLines(board, perspective, 2)-countLines(board, opponent, 2))*e.weights.TwoInRow
}

func canWinNow(board domain.Board, color domain.Color) bool {
	for col := 0; col < board.Width(); col++ {
		if !board.IsLegalMove(col) {
			continue
		}
		if _, won, err := domain.SimulateMove(board, col, color); err == nil && won {
			return true
		}
	}
	return false
}

// countLines counts 4-cell windows holding exactly length pieces of color and
// 4-length empty cells.
func countLines(board domain.Board, color domain.Color, length int) int {
	width, height := board.Width(), board.Height()
	count := 0

	// horizontal
	for row := 0; row < height; row++ {
		for col := 0; col <= width-windowLength; col++ {
			count += matchWindow(board, row, col, 0, 1, color, length)
		}
	}
	// vertical
	for row := 0; row <= height-windowLength; row++ {
		for col := 0; col < width; col++ {
			count += matchWindow(board, row, col, 1, 0, color, length)
		}
	}
	// diagonal /
	for row := 0; row <= height-windowLength; row++ {
		for col := 0; col <= width-windowLength; col++ {
			count += matchWindow(board, row, col, 1, 1, color, length)
		}
	}
	// diagonal \
	for row := windowLength - 1; row < height; row++ {
		for col := 0; col <= width-windowLength; col++ {
			count += matchWindow(board, row, col, -1, 1, color, length)
		}
	}
	return count
}

func matchWindow(board domain.Board, row, col, dRow, dCol int, color domain.Color, length int) int {
	own, empty := 0, 0
	for i := 0; i < windowLength; i++ {
		switch board.CellColor(row+i*dRow, col+i*dCol) {
		case color:
			own++
		case domain.Empty:
			empty++
		default:
			return 0 // blocked
		}
	}
	if own == length && empty == windowLength-length {
		return 1
	}
	return 0
}

func centerControl(board domain.Board, color domain.Color) int {
	half := board.Width() / 2
	score := 0
	for row := 0; row < board.Height(); row++ {
		for col := 0; col < board.Width(); col++ {
			if board.CellColor(row, col) == color {
				score += half - abs(col-half)
			}
		}
	}
	return score
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
