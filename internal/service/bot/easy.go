package bot

import (
	"sync"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"golang.org/x/exp/rand"
)

// EasyPlayer wins when it can, blocks when it must, and otherwise plays a random column.
type EasyPlayer struct {
	name string
	mu   sync.Mutex
	rng  *rand.Rand
}

func NewEasyPlayer(seed uint64) *EasyPlayer {
	return &EasyPlayer{
		name: domain.GetBotName("easy"),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (p *EasyPlayer) Name() string {
	return p.name
}

func (p *EasyPlayer) ChooseColumn(board domain.Board, color domain.Color) int {
	return p.Choose(board, color).Column
}

func (p *EasyPlayer) Choose(board domain.Board, color domain.Color) Decision {
	start := time.Now()
	validColumns := domain.GetValidMoves(board)
	if len(validColumns) == 0 {
		return Decision{Column: -1}
	}

	for _, col := range validColumns {
		if _, won, err := domain.SimulateMove(board, col, color); err == nil && won {
			return Decision{Column: col, Score: MINIMAX_WIN, ImmediateWin: true, Elapsed: time.Since(start)}
		}
	}

	opponent := color.Opponent()
	for _, col := range validColumns {
		if _, won, err := domain.SimulateMove(board, col, opponent); err == nil && won {
			return Decision{Column: col, Elapsed: time.Since(start)}
		}
	}

	p.mu.Lock()
	col := validColumns[p.rng.Intn(len(validColumns))]
	p.mu.Unlock()
	return Decision{Column: col, Elapsed: time.Since(start)}
}
