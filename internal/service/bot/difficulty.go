package bot

import (
	"fmt"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NewPlayer builds the bot for a difficulty. depth only matters for "hard".
func NewPlayer(difficulty string, depth int) (Player, error) {
	switch difficulty {
	case DifficultyEasy:
		return NewEasyPlayer(uint64(time.Now().UnixNano())), nil
	case DifficultyMedium:
		return NewGreedyPlayer(nil), nil
	case DifficultyHard, "":
		p, err := NewMinimaxPlayer(depth, WithName(domain.GetBotName(DifficultyHard)))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w %q", domain.ErrInvalidDifficulty, difficulty)
	}
}

func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
