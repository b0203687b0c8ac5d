package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/apt"

	"github.com/comandaclub/comanda/internal/mongo"
	"github.com/comandaclub/comanda/internal/pos"
	"github.com/comandaclub/comanda/internal/postgres"
	"github.com/comandaclub/comanda/internal/seeding"
)

const (
	appName    = "comanda-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := apt.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := seedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed")

	case "reset-db":
		if err := resetDB(ctx, config, logger); err != nil {
			log.Fatalf("Database reset failed: %v", err)
		}
		logger.Info("Database reset completed")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func seedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	repos, stop, err := buildRepos(ctx, config, logger)
	if err != nil {
		return err
	}
	defer stop(ctx)

	return seeding.Demo(ctx, repos, logger)
}

// resetDB wipes every collection or table the system owns. Menu, floor plan,
// orders and register history are all gone afterwards.
func resetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	driver := config.GetStringOrDef("db.driver", "mongo")

	switch driver {
	case "mongo":
		baseRepo := mongo.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			return err
		}
		defer baseRepo.Stop(ctx)
		return baseRepo.GetDatabase().Drop(ctx)

	case "postgres":
		baseRepo := postgres.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			return err
		}
		defer baseRepo.Stop(ctx)
		_, err := baseRepo.GetPool().Exec(ctx,
			`TRUNCATE tables, orders, menu_items, categories, cash_registers`)
		return err

	default:
		return fmt.Errorf("unknown db.driver: %s", driver)
	}
}

func buildRepos(ctx context.Context, config *apt.Config, logger apt.Logger) (pos.Repos, func(context.Context) error, error) {
	driver := config.GetStringOrDef("db.driver", "mongo")

	switch driver {
	case "mongo":
		baseRepo := mongo.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			return pos.Repos{}, nil, err
		}
		db := baseRepo.GetDatabase()
		return pos.Repos{
			Tables:   mongo.NewTableRepo(db),
			Orders:   mongo.NewOrderRepo(db),
			Menu:     mongo.NewMenuRepo(db),
			Register: mongo.NewCashRegisterRepo(db),
		}, baseRepo.Stop, nil

	case "postgres":
		baseRepo := postgres.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			return pos.Repos{}, nil, err
		}
		pool := baseRepo.GetPool()
		return pos.Repos{
			Tables:   postgres.NewTableRepo(pool),
			Orders:   postgres.NewOrderRepo(pool),
			Menu:     postgres.NewMenuRepo(pool),
			Register: postgres.NewCashRegisterRepo(pool),
		}, baseRepo.Stop, nil

	default:
		return pos.Repos{}, nil, fmt.Errorf("unknown db.driver: %s", driver)
	}
}

func printUsage() {
	fmt.Printf(`%s - comanda utility commands

Usage:
  %s <command> [options]

Commands:
  seed-demo    Seed the demo menu, categories and floor plan
  reset-db     Full database reset (drops all data - USE WITH CAUTION)
  version      Print version information
  help         Show this help message

Environment Variables:
  UTILS_DB_DRIVER        Storage driver: mongo or postgres (default: mongo)
  UTILS_DB_MONGO_URL     MongoDB connection URL
  UTILS_DB_POSTGRES_URL  PostgreSQL connection URL
  UTILS_LOG_LEVEL        Log level: debug, info, warn, error (default: info)

Examples:
  %s seed-demo
  UTILS_DB_DRIVER=postgres %s reset-db

`, appName, appName, appName, appName)
}
