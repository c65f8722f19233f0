package bot

import (
	"testing"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func dropAll(t *testing.T, b domain.Board, color domain.Color, cols ...int) {
	t.Helper()
	for _, col := range cols {
		_, err := b.DropPiece(col, color)
		require.NoError(t, err)
	}
}

// swapColors returns a copy of g with every piece changed to the other color.
func swapColors(t *testing.T, g *domain.Grid) *domain.Grid {
	t.Helper()
	rows := g.Rows()
	for _, row := range rows {
		for i := range row {
			row[i] = -row[i]
		}
	}
	swapped, err := domain.ParseRows(rows)
	require.NoError(t, err)
	return swapped
}

// randomPosition plays up to plies random moves and never returns a finished game.
func randomPosition(t *testing.T, rng *rand.Rand, size, plies int) *domain.Game {
	t.Helper()
	for {
		g, err := domain.NewGame(size)
		require.NoError(t, err)
		for i := 0; i < plies && !g.IsFinished(); i++ {
			moves := domain.GetValidMoves(g.Board)
			_, err := g.MakeMove(g.CurrentPlayer, moves[rng.Intn(len(moves))])
			require.NoError(t, err)
		}
		if !g.IsFinished() && g.MoveCount > 0 {
			return g
		}
	}
}

func TestEvaluateEmptyBoardIsZero(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	b := domain.NewDefaultBoard()
	require.Equal(t, 0, ev.Evaluate(b, domain.ColorA))
	require.Equal(t, 0, ev.Evaluate(b, domain.ColorB))
}

func TestEvaluateCenterControl(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 4)

	require.Equal(t, 4*CENTER_WEIGHT, ev.Evaluate(b, domain.ColorA))
	require.Equal(t, 0, ev.Evaluate(b, domain.ColorB), "centre control only counts own pieces")

	edge := domain.NewDefaultBoard()
	dropAll(t, edge, domain.ColorA, 0)
	require.Equal(t, 0, ev.Evaluate(edge, domain.ColorA))
}

func TestEvaluateTwoInRow(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 0, 1)

	// One open two-window on the bottom row plus one point of centre for column 1.
	require.Equal(t, TWO_IN_ROW_WEIGHT+CENTER_WEIGHT, ev.Evaluate(b, domain.ColorA))
}

func TestCountLinesIsExclusive(t *testing.T) {
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 0, 1, 2)

	require.Equal(t, 1, countLines(b, domain.ColorA, 3))
	// [A A A .] is not a two-window, [A A . .] starting at column 1 is.
	require.Equal(t, 1, countLines(b, domain.ColorA, 2))
	require.Equal(t, 0, countLines(b, domain.ColorB, 2))
}

func TestCountLinesBlockedWindow(t *testing.T) {
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 0, 1)
	dropAll(t, b, domain.ColorB, 2)

	require.Equal(t, 0, countLines(b, domain.ColorA, 2))
}

func TestCountLinesDiagonals(t *testing.T) {
	b := domain.NewDefaultBoard()
	// A on (0,0), (1,1), (2,2) with B underneath where needed.
	dropAll(t, b, domain.ColorA, 0)
	dropAll(t, b, domain.ColorB, 1)
	dropAll(t, b, domain.ColorA, 1)
	dropAll(t, b, domain.ColorB, 2, 2)
	dropAll(t, b, domain.ColorA, 2)

	require.Equal(t, 1, countLines(b, domain.ColorA, 3))
}

func TestEvaluateThreatShortCircuit(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 0, 1, 2)

	require.Equal(t, THREAT_BONUS, ev.Evaluate(b, domain.ColorA))
	require.Equal(t, -THREAT_BONUS, ev.Evaluate(b, domain.ColorB))
}

func TestEvaluateOwnThreatCheckedFirst(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 0, 1, 2)
	dropAll(t, b, domain.ColorB, 7, 7, 7)

	// Both sides can win at once; the perspective's own win takes precedence.
	require.Equal(t, THREAT_BONUS, ev.Evaluate(b, domain.ColorA))
	require.Equal(t, THREAT_BONUS, ev.Evaluate(b, domain.ColorB))
}

func TestEvaluateColorSymmetry(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	rng := rand.New(rand.NewSource(7))

	// Checks Evaluate(swap(b), -c) == Evaluate(b, c) and LineBalance antisymmetry, not Evaluate(swap(b), -c) == -Evaluate(b, c).
	for i := 0; i < 40; i++ {
		g := randomPosition(t, rng, domain.DefaultSize, 1+rng.Intn(20))
		swapped := swapColors(t, g.Board)

		for _, color := range []domain.Color{domain.ColorA, domain.ColorB} {
			require.Equal(t, ev.Evaluate(g.Board, color), ev.Evaluate(swapped, color.Opponent()),
				"relabelling both the pieces and the perspective must not change the score")
			require.Equal(t, -ev.LineBalance(g.Board, color), ev.LineBalance(swapped, color),
				"swapping the pieces alone inverts the line balance")
			require.Equal(t, -ev.LineBalance(g.Board, color), ev.LineBalance(g.Board, color.Opponent()))
		}
	}
}

func TestEvaluateIsLineBalanceWithoutCenter(t *testing.T) {
	w := DefaultWeights()
	w.Center = 0
	ev := NewEvaluator(w)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 20; i++ {
		g := randomPosition(t, rng, domain.DefaultSize, 1+rng.Intn(12))
		score := ev.Evaluate(g.Board, domain.ColorA)
		if score == w.Threat || score == -w.Threat {
			continue
		}
		require.Equal(t, ev.LineBalance(g.Board, domain.ColorA), score)
	}
}

func TestEvaluateRespectsWeights(t *testing.T) {
	b := domain.NewDefaultBoard()
	dropAll(t, b, domain.ColorA, 0, 1)

	ev := NewEvaluator(Weights{ThreeInRow: 0, TwoInRow: 7, Center: 0, Threat: 1})
	require.Equal(t, 7, ev.Evaluate(b, domain.ColorA))
	require.Equal(t, -7, ev.Evaluate(b, domain.ColorB))
}
