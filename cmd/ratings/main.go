package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"idl-tracker/config"
	"idl-tracker/logging"
	"idl-tracker/packages/core"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	defer logging.Sync()

	config.ConnectDatabase(cfg)
	module := core.NewModule(config.DB, core.Options{
		DefaultElo: cfg.DefaultElo,
		Rounding:   cfg.RatingRounding,
		RatingCron: cfg.RatingCron,
	})

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "rate":
		rated, err := module.RatingService.RatePending(ctx)
		if err != nil {
			logging.Fatal("Rating failed", zap.Int("rated", rated), zap.Error(err))
		}
		fmt.Printf("Rated %d games\n", rated)
	case "recalculate":
		runID, rated, err := module.RatingService.Recalculate(ctx)
		if err != nil {
			logging.Fatal("Recalculation failed", zap.Error(err))
		}
		fmt.Printf("Replayed %d games (run %s)\n", rated, runID)
	case "leaderboard":
		limit := 20
		if len(os.Args) > 2 {
			if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
				limit = n
			}
		}
		entries, err := module.PlayerService.GetLeaderboard(ctx, limit)
		if err != nil {
			logging.Fatal("Failed to load leaderboard", zap.Error(err))
		}
		fmt.Println("Rank | Elo  | Games | Player")
		fmt.Println("-----|------|-------|-------")
		for _, e := range entries {
			fmt.Printf("%-4d | %-4d | %-5d | %s\n", e.Rank, e.Elo, e.GamesPlayedTotal, e.Name)
		}
	case "stats":
		stats, err := module.StatsService.GetStats(ctx)
		if err != nil {
			logging.Fatal("Failed to load stats", zap.Error(err))
		}
		fmt.Printf("Players: %d\nSeasons: %d\nMatches: %d\nGames:   %d (%d rated, %d pending)\n",
			stats.TotalPlayers, stats.TotalSeasons, stats.TotalMatches, stats.TotalGames, stats.RatedGames, stats.PendingGames)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/ratings rate              - Rate all pending games in order")
	fmt.Println("  go run ./cmd/ratings recalculate       - Replay every game from initial ratings")
	fmt.Println("  go run ./cmd/ratings leaderboard [n]   - Show the top n players (default: 20)")
	fmt.Println("  go run ./cmd/ratings stats             - Show league counts")
}
