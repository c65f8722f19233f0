package arena

import (
	"testing"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
	"github.com/stretchr/testify/require"
)

func TestDefaultScenariosBuild(t *testing.T) {
	for _, s := range DefaultScenarios() {
		board, err := s.Build()
		require.NoError(t, err, s.Name)
		require.Equal(t, len(s.Setup), board.Pieces(), s.Name)
		require.True(t, board.HasLegalMove(), s.Name)
	}
}

func TestFillWithoutFour(t *testing.T) {
	board, err := Scenario{Name: "full", Size: 8, Setup: fillWithoutFour(8, 8)}.Build()
	require.NoError(t, err)
	require.False(t, board.HasLegalMove())
}

func TestScenarioBuildErrors(t *testing.T) {
	_, err := Scenario{Name: "overflow", Size: 4, Setup: drops(domain.ColorA, 0, 0, 0, 0, 0)}.Build()
	require.ErrorIs(t, err, domain.ErrColumnFull)

	_, err = Scenario{Name: "already won", Size: 4, Setup: drops(domain.ColorA, 0, 1, 2, 3)}.Build()
	require.ErrorIs(t, err, domain.ErrGameFinished)

	_, err = Scenario{Name: "tiny", Size: 2}.Build()
	require.ErrorIs(t, err, domain.ErrInvalidSize)
}

func TestRunScenarios(t *testing.T) {
	minimax, err := bot.NewMinimaxPlayer(4)
	require.NoError(t, err)

	players := []bot.Player{
		minimax,
		bot.NewGreedyPlayer(nil),
		bot.NewEasyPlayer(7),
	}
	for _, p := range players {
		for _, res := range RunScenarios(p, DefaultScenarios()) {
			require.NoError(t, res.Err, "%s / %s", p.Name(), res.Scenario.Name)
			require.True(t, res.Passed, "%s / %s chose %d", p.Name(), res.Scenario.Name, res.Decision.Column)
		}
	}
}

func TestRunScenariosReportsFailure(t *testing.T) {
	s := Scenario{Name: "wrong", Size: 4, ToMove: domain.ColorA, Expect: []int{-5}}
	results := RunScenarios(bot.NewGreedyPlayer(nil), []Scenario{s})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.False(t, results[0].Passed)
}
