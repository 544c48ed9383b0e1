package main

import (
	"context"
	"fmt"
	"os"

	"idl-tracker/config"
	"idl-tracker/fixtures"
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
	fixtureManager := fixtures.NewFixtures(config.DB, module)

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "generate":
		generate(ctx, fixtureManager)
	case "clear":
		if err := fixtureManager.ClearAllData(); err != nil {
			logging.Fatal("Failed to clear fixtures", zap.Error(err))
		}
		fmt.Println("All fixture data cleared!")
	case "regenerate":
		fmt.Println("Clearing existing data...")
		if err := fixtureManager.ClearAllData(); err != nil {
			logging.Fatal("Failed to clear fixtures", zap.Error(err))
		}
		fmt.Println("Generating new fixtures...")
		generate(ctx, fixtureManager)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func generate(ctx context.Context, f *fixtures.Fixtures) {
	summary, err := f.GenerateTestData(ctx)
	if err != nil {
		logging.Fatal("Failed to generate fixtures", zap.Error(err))
	}
	fmt.Printf("Created %d players, %d seasons, %d teams, %d matches, %d games (%d rated)\n",
		summary.Players, summary.Seasons, summary.Teams, summary.Matches, summary.Games, summary.Rated)
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/fixtures generate    - Generate test data (20 players, 2 seasons, rated games)")
	fmt.Println("  go run ./cmd/fixtures clear       - Clear all fixture data")
	fmt.Println("  go run ./cmd/fixtures regenerate  - Clear and regenerate all data")
}
