// arena - bot-vs-bot tournaments and tactical checks for the Connect-Four engine
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/iamasit07/c4-minimax/internal/config"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/iamasit07/c4-minimax/internal/service/arena"
	"github.com/iamasit07/c4-minimax/internal/service/bot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	games := flag.Int("games", 2, "Games per pair of contestants")
	size := flag.Int("size", config.GetEnvAsInt("BOARD_SIZE", 8), "Board size (N x N)")
	depths := flag.String("depths", "2,4", "Comma separated depths of the minimax contestants")
	openings := flag.Int("openings", 2, "Random opening plies before the bots take over")
	seed := flag.Uint64("seed", 1, "Seed for openings and the easy bot")
	parallel := flag.Int("parallel", 0, "Games played concurrently (0 = number of CPUs)")
	scenarios := flag.Bool("scenarios", false, "Run the tactical scenarios instead of a tournament")
	boards := flag.Bool("boards", false, "Print the final board of every game")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	logLevel := flag.String("log-level", config.GetEnv("LOG_LEVEL", "warn"), "Log level")
	flag.Parse()

	logging.Setup(*logLevel, "console")

	depthList, err := parseDepths(*depths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *scenarios {
		if !runScenarios(depthList) {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := arena.Config{
		Contestants: []arena.Contestant{
			{Name: "easy", Difficulty: bot.DifficultyEasy},
			{Name: "medium", Difficulty: bot.DifficultyMedium},
		},
		GamesPerPair: *games,
		Size:         *size,
		OpeningPlies: *openings,
		Seed:         *seed,
		Parallelism:  *parallel,
	}
	for _, d := range depthList {
		cfg.Contestants = append(cfg.Contestants, arena.Contestant{
			Name:       fmt.Sprintf("minimax-d%d", d),
			Difficulty: bot.DifficultyHard,
			Depth:      d,
		})
	}

	report, err := arena.Run(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("tournament failed")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("failed to encode report")
		}
		return
	}

	if *boards {
		for _, g := range report.Games {
			fmt.Printf("Game %d: %s (A) vs %s (B), winner %s, opening %v\n",
				g.Index, g.First, g.Second, g.WinnerName(), g.Opening)
			fmt.Println(g.Board.String())
		}
	}
	printStandings(report)
}

func parseDepths(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 1 || d > config.MaxBotDepth {
			return nil, fmt.Errorf("invalid depth %q (allowed 1..%d)", part, config.MaxBotDepth)
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one depth is required")
	}
	return out, nil
}

func printStandings(report *arena.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Name\tElo\tGames\tW\tL\tD\tNodes/move\tStdDev\tMax nodes\tms/move\t")
	for _, s := range report.Standings {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.0f\t%.0f\t%.0f\t%.2f\t\n",
			s.Name, s.Rating, s.Games, s.Wins, s.Losses, s.Draws,
			s.NodesPerMove, s.NodesStdDev, s.MaxNodes, s.MsPerMove)
	}
	w.Flush()
	fmt.Printf("\n%d games in %s\n", len(report.Games), report.Elapsed.Round(time.Millisecond))
}

func runScenarios(depths []int) bool {
	allPassed := true
	for _, d := range depths {
		player, err := bot.NewMinimaxPlayer(d, bot.WithName(fmt.Sprintf("minimax-d%d", d)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		fmt.Printf("=== %s ===\n", player.Name())
		for _, res := range arena.RunScenarios(player, arena.DefaultScenarios()) {
			fmt.Printf("\n--- %s ---\n", res.Scenario.Name)
			if res.Err != nil {
				fmt.Printf("setup failed: %v\n", res.Err)
				allPassed = false
				continue
			}
			fmt.Print(res.Board.String())

			status := "PASSED"
			if !res.Passed {
				status = "FAILED"
				allPassed = false
			}
			expect := "any legal column"
			if len(res.Scenario.Expect) > 0 {
				expect = fmt.Sprint(res.Scenario.Expect)
			}
			fmt.Printf("chose %d (expected %s), score %d, %d nodes: %s\n",
				res.Decision.Column, expect, res.Decision.Score, res.Decision.Nodes, status)
		}
		fmt.Println()
	}
	return allPassed
}
