package arena

import (
	"fmt"
	"slices"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
)

// Drop is one piece placed while setting up a scenario.
type Drop struct {
	Column int
	Color  domain.Color
}

// Scenario is a fixed position with the columns a sound player should choose.
// An empty Expect accepts any legal column.
type Scenario struct {
	Name   string
	Size   int
	Setup  []Drop
	ToMove domain.Color
	Expect []int
}

type ScenarioResult struct {
	Scenario Scenario
	Board    *domain.Grid
	Decision bot.Decision
	Passed   bool
	Err      error
}

func drops(color domain.Color, columns ...int) []Drop {
	out := make([]Drop, len(columns))
	for i, col := range columns {
		out[i] = Drop{Column: col, Color: color}
	}
	return out
}

// DefaultScenarios are the tactical positions every bot is checked against.
func DefaultScenarios() []Scenario {
	a, b := domain.ColorA, domain.ColorB
	return []Scenario{
		{
			Name:   "immediate win",
			Size:   8,
			Setup:  drops(a, 0, 1, 2),
			ToMove: a,
			Expect: []int{3},
		},
		{
			Name:   "block threat",
			Size:   8,
			Setup:  drops(b, 0, 1, 2),
			ToMove: a,
			Expect: []int{3},
		},
		{
			Name:   "double threat setup",
			Size:   8,
			Setup:  append(drops(a, 1, 2, 1), drops(b, 3, 4)...),
			ToMove: a,
		},
		{
			Name:   "vertical win",
			Size:   8,
			Setup:  drops(a, 4, 4, 4),
			ToMove: a,
			Expect: []int{4},
		},
		{
			Name: "diagonal win",
			Size: 8,
			Setup: slices.Concat(
				drops(a, 0),
				drops(b, 1), drops(a, 1),
				drops(b, 2, 2), drops(a, 2),
				drops(b, 3, 3, 3),
			),
			ToMove: a,
			Expect: []int{3},
		},
		{
			Name:   "single open column",
			Size:   8,
			Setup:  fillWithoutFour(8, 7),
			ToMove: a,
			Expect: []int{7},
		},
	}
}

// fillWithoutFour fills the first cols columns of a size board so that no
// line of four exists: pairs of rows alternate, columns alternate.
func fillWithoutFour(size, cols int) []Drop {
	out := make([]Drop, 0, size*cols)
	for col := 0; col < cols; col++ {
		for row := 0; row < size; row++ {
			color := domain.ColorA
			if (row%4 < 2) != (col%2 == 0) {
				color = domain.ColorB
			}
			out = append(out, Drop{Column: col, Color: color})
		}
	}
	return out
}

// Build places the setup pieces on a fresh board.
func (s Scenario) Build() (*domain.Grid, error) {
	board, err := domain.NewBoard(s.Size)
	if err != nil {
		return nil, err
	}
	for i, d := range s.Setup {
		if _, err := board.DropPiece(d.Column, d.Color); err != nil {
			return nil, fmt.Errorf("scenario %q drop %d: %w", s.Name, i, err)
		}
	}
	if _, won := domain.HasFourAnywhere(board); won {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, domain.ErrGameFinished)
	}
	return board, nil
}

// RunScenarios asks player for a move in each scenario.
func RunScenarios(player bot.Player, scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		res := ScenarioResult{Scenario: s}
		res.Board, res.Err = s.Build()
		if res.Err == nil {
			res.Decision = player.Choose(res.Board, s.ToMove)
			res.Passed = res.Board.IsLegalMove(res.Decision.Column) &&
				(len(s.Expect) == 0 || slices.Contains(s.Expect, res.Decision.Column))
		}
		results = append(results, res)
	}
	return results
}
