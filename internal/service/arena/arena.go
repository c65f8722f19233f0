package arena

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrNotEnoughContestants = errors.New("arena needs at least two contestants")

// Contestant is one bot entered in a tournament.
type Contestant struct {
	Name       string
	Difficulty string
	Depth      int
	// Weights overrides the evaluator of hard and medium bots.
	Weights *bot.Weights
}

func (c Contestant) label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Difficulty == bot.DifficultyHard || c.Difficulty == "" {
		return fmt.Sprintf("hard-d%d", c.Depth)
	}
	return c.Difficulty
}

// NewPlayer builds a fresh player; seed only drives the easy bot.
func (c Contestant) NewPlayer(seed uint64) (bot.Player, error) {
	switch c.Difficulty {
	case bot.DifficultyEasy:
		return bot.NewEasyPlayer(seed), nil
	case bot.DifficultyMedium:
		var evaluator *bot.Evaluator
		if c.Weights != nil {
			evaluator = bot.NewEvaluator(*c.Weights)
		}
		return bot.NewGreedyPlayer(evaluator), nil
	case bot.DifficultyHard, "":
		depth := c.Depth
		if depth == 0 {
			depth = bot.DefaultDepth
		}
		options := []bot.Option{bot.WithName(c.label())}
		if c.Weights != nil {
			options = append(options, bot.WithWeights(*c.Weights))
		}
		return bot.NewMinimaxPlayer(depth, options...)
	default:
		return nil, fmt.Errorf("%w %q", domain.ErrInvalidDifficulty, c.Difficulty)
	}
}

type Config struct {
	Contestants []Contestant
	// GamesPerPair is split evenly between both colour assignments.
	GamesPerPair int
	Size         int
	// OpeningPlies random moves are played before the bots take over.
	OpeningPlies int
	Seed         uint64
	Parallelism  int
}

// GameResult is one finished arena game. First played ColorA.
type GameResult struct {
	Index   int               `json:"index"`
	First   string            `json:"first"`
	Second  string            `json:"second"`
	Opening []int             `json:"opening"`
	Moves   []int             `json:"moves"`
	Status  domain.GameStatus `json:"status"`
	Winner  domain.Color      `json:"winner"`
	Board   *domain.Grid      `json:"-"`

	samples [2]moveSamples
}

// WinnerName is the winning contestant, or "draw".
func (r GameResult) WinnerName() string {
	switch {
	case r.Status != domain.StatusWon:
		return "draw"
	case r.Winner == domain.ColorA:
		return r.First
	default:
		return r.Second
	}
}

type moveSamples struct {
	nodes  []float64
	millis []float64
}

func (s *moveSamples) add(d bot.Decision) {
	s.nodes = append(s.nodes, float64(d.Nodes))
	s.millis = append(s.millis, float64(d.Elapsed.Microseconds())/1000)
}

// Standing is a contestant's final line in the tournament table.
type Standing struct {
	Name         string  `json:"name"`
	Rating       int     `json:"rating"`
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	Moves        int     `json:"moves"`
	TotalNodes   float64 `json:"totalNodes"`
	NodesPerMove float64 `json:"nodesPerMove"`
	NodesStdDev  float64 `json:"nodesStdDev"`
	MaxNodes     float64 `json:"maxNodes"`
	MsPerMove    float64 `json:"msPerMove"`
	MaxMs        float64 `json:"maxMs"`
}

type Report struct {
	Games     []GameResult  `json:"games"`
	Standings []Standing    `json:"standings"`
	Elapsed   time.Duration `json:"elapsed"`
}

type match struct {
	index         int
	first, second int
	seed          uint64
}

func (cfg *Config) normalize() error {
	if len(cfg.Contestants) < 2 {
		return ErrNotEnoughContestants
	}
	seen := make(map[string]bool, len(cfg.Contestants))
	for _, c := range cfg.Contestants {
		name := c.label()
		if seen[name] {
			return fmt.Errorf("duplicate contestant %q", name)
		}
		seen[name] = true
		if _, err := c.NewPlayer(0); err != nil {
			return fmt.Errorf("contestant %q: %w", name, err)
		}
	}
	if cfg.GamesPerPair <= 0 {
		cfg.GamesPerPair = 2
	}
	if cfg.Size == 0 {
		cfg.Size = domain.DefaultSize
	}
	if cfg.Size < domain.MinSize || cfg.Size > domain.MaxSize {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSize, cfg.Size)
	}
	if cfg.OpeningPlies < 0 {
		cfg.OpeningPlies = 0
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.NumCPU()
	}
	return nil
}

func (cfg *Config) schedule() []match {
	var matches []match
	n := len(cfg.Contestants)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for g := 0; g < cfg.GamesPerPair; g++ {
				m := match{index: len(matches), first: i, second: j}
				if g%2 == 1 {
					m.first, m.second = j, i
				}
				m.seed = cfg.Seed + uint64(m.index)*7919
				matches = append(matches, m)
			}
		}
	}
	return matches
}

// Run plays a round robin between every pair of contestants and rates them with Elo.
// Games run in parallel; ratings are applied afterwards in schedule order so the
// report is reproducible for a given seed.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	start := time.Now()
	matches := cfg.schedule()
	results := make([]GameResult, len(matches))

	logging.Component("arena").Info().Int("contestants", len(cfg.Contestants)).
		Int("games", len(matches)).Int("size", cfg.Size).Int("parallelism", cfg.Parallelism).
		Msg("tournament started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for _, m := range matches {
		g.Go(func() error {
			res, err := playMatch(gctx, cfg, m)
			if err != nil {
				return err
			}
			results[m.index] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Games:     results,
		Standings: standings(cfg.Contestants, results),
		Elapsed:   time.Since(start),
	}
	logging.Component("arena").Info().Dur("elapsed", report.Elapsed).Msg("tournament finished")
	return report, nil
}

func playMatch(ctx context.Context, cfg Config, m match) (*GameResult, error) {
	first, second := cfg.Contestants[m.first], cfg.Contestants[m.second]
	players := [2]bot.Player{}
	var err error
	if players[0], err = first.NewPlayer(m.seed); err != nil {
		return nil, err
	}
	if players[1], err = second.NewPlayer(m.seed + 1); err != nil {
		return nil, err
	}

	game, err := domain.NewGame(cfg.Size)
	if err != nil {
		return nil, err
	}
	res := &GameResult{Index: m.index, First: first.label(), Second: second.label()}

	rng := rand.New(rand.NewSource(m.seed))
	res.Opening = playOpening(game, rng, cfg.OpeningPlies)

	for !game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		side := 0
		if game.CurrentPlayer == domain.ColorB {
			side = 1
		}
		decision := players[side].Choose(game.Board, game.CurrentPlayer)
		if decision.Column < 0 {
			return nil, fmt.Errorf("game %d: %s: %w", m.index, players[side].Name(), domain.ErrNoLegalMove)
		}
		if _, err := game.MakeMove(game.CurrentPlayer, decision.Column); err != nil {
			return nil, fmt.Errorf("game %d: %s played %d: %w", m.index, players[side].Name(), decision.Column, err)
		}
		res.samples[side].add(decision)
	}

	res.Moves = append([]int(nil), game.Moves...)
	res.Status = game.Status
	res.Winner = game.Winner
	res.Board = game.Board

	logging.Component("arena").Debug().Int("game", m.index).Str("first", res.First).
		Str("second", res.Second).Str("winner", res.WinnerName()).Int("moves", len(res.Moves)).
		Msg("game finished")
	return res, nil
}

// playOpening plays up to plies random moves, stopping before any move that
// would end the game.
func playOpening(game *domain.Game, rng *rand.Rand, plies int) []int {
	opening := []int{}
	for len(opening) < plies {
		moves := domain.GetValidMoves(game.Board)
		if len(moves) == 0 {
			break
		}
		col := moves[rng.Intn(len(moves))]
		next, won, err := domain.SimulateMove(game.Board, col, game.CurrentPlayer)
		if err != nil || won || !next.HasLegalMove() {
			break
		}
		if _, err := game.MakeMove(game.CurrentPlayer, col); err != nil {
			break
		}
		opening = append(opening, col)
	}
	return opening
}

func standings(contestants []Contestant, results []GameResult) []Standing {
	index := make(map[string]int, len(contestants))
	table := make([]Standing, len(contestants))
	samples := make([]moveSamples, len(contestants))
	for i, c := range contestants {
		index[c.label()] = i
		table[i] = Standing{Name: c.label(), Rating: domain.InitialRating}
	}

	for _, r := range results {
		a, b := index[r.First], index[r.Second]
		scoreA := domain.OutcomeScore(r.Status, r.Winner, domain.ColorA)
		table[a].Rating, table[b].Rating = domain.UpdatePair(table[a].Rating, table[b].Rating, scoreA)

		for side, i := range [2]int{a, b} {
			table[i].Games++
			switch {
			case r.Status != domain.StatusWon:
				table[i].Draws++
			case (side == 0) == (r.Winner == domain.ColorA):
				table[i].Wins++
			default:
				table[i].Losses++
			}
			samples[i].nodes = append(samples[i].nodes, r.samples[side].nodes...)
			samples[i].millis = append(samples[i].millis, r.samples[side].millis...)
		}
	}

	for i := range table {
		summarize(&table[i], samples[i])
	}
	slices.SortStableFunc(table, func(x, y Standing) int {
		if x.Rating != y.Rating {
			return y.Rating - x.Rating
		}
		if x.Name < y.Name {
			return -1
		}
		if x.Name > y.Name {
			return 1
		}
		return 0
	})
	return table
}

func summarize(s *Standing, samples moveSamples) {
	s.Moves = len(samples.nodes)
	if s.Moves == 0 {
		return
	}
	s.TotalNodes = floats.Sum(samples.nodes)
	s.MaxNodes = floats.Max(samples.nodes)
	s.MaxMs = floats.Max(samples.millis)
	if s.Moves == 1 {
		s.NodesPerMove = samples.nodes[0]
		s.MsPerMove = samples.millis[0]
		return
	}
	s.NodesPerMove, s.NodesStdDev = stat.MeanStdDev(samples.nodes, nil)
	s.MsPerMove = stat.Mean(samples.millis, nil)
}
