package main

import (
	"fmt"
	"os"
	"strconv"

	"idl-tracker/config"
	"idl-tracker/logging"
	"idl-tracker/migrations"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	defer logging.Sync()

	config.ConnectDatabase(cfg)

	migrator, err := migrations.NewMigrator(config.DB)
	if err != nil {
		logging.Fatal("Failed to initialise migrator", zap.Error(err))
	}
	for _, migration := range migrations.GetCoreMigrations() {
		migrator.AddMigration(migration)
	}

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		if err := migrator.Migrate(); err != nil {
			logging.Fatal("Migration failed", zap.Error(err))
		}
	case "rollback":
		steps := 1
		if len(os.Args) > 2 {
			if s, err := strconv.Atoi(os.Args[2]); err == nil {
				steps = s
			}
		}
		if err := migrator.Rollback(steps); err != nil {
			logging.Fatal("Rollback failed", zap.Error(err))
		}
	case "status":
		status, err := migrator.Status()
		if err != nil {
			logging.Fatal("Failed to read migration status", zap.Error(err))
		}
		fmt.Println("Migration Status:")
		fmt.Println("Ran?  | Name")
		fmt.Println("------|-----")
		for _, name := range migrator.Names() {
			ran := "No"
			if status[name] {
				ran = "Yes"
			}
			fmt.Printf("%-5s | %s\n", ran, name)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migrate migrate          - Run pending migrations")
	fmt.Println("  go run ./cmd/migrate rollback [steps] - Rollback migrations (default: 1)")
	fmt.Println("  go run ./cmd/migrate status           - Show migration status")
}
