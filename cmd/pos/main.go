package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/comandaclub/comanda/internal/events"
	"github.com/comandaclub/comanda/internal/mongo"
	"github.com/comandaclub/comanda/internal/pos"
	"github.com/comandaclub/comanda/internal/postgres"
)

const (
	appNamespace = "POS"
	appName      = "pos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	repos, repoStop, err := buildRepos(ctx, config, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot start repositories: %v", appName, appVersion, err)
	}

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")
	pub, err := events.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	executor := pos.NewExecutor(repos, pub, logger)

	opts := pos.StoreOptions{
		StrictRegister: config.GetStringOrDef("register.strict", "false") == "true",
		AutoClean:      config.GetStringOrDef("table.autoclean", "false") == "true",
	}
	store := pos.NewStore(executor, opts, logger)

	interval := pos.DefaultSyncInterval
	if raw := config.GetStringOrDef("sync.interval", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("%s(%s) invalid sync.interval %q: %v", appName, appVersion, raw, err)
		}
		interval = parsed
	}
	syncer := pos.NewSyncer(repos, store, interval, logger)

	handler := pos.NewHandler(store, config, logger)

	storeLifecycle := apt.LifecycleHooks{
		OnStart: store.Start,
	}
	syncLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := syncer.WarmMenu(ctx); err != nil {
				return err
			}
			return syncer.Start(ctx)
		},
	}
	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(
			storeLifecycle,
			syncLifecycle,
			publisherLifecycle,
			apt.LifecycleHooks{OnStop: repoStop},
		),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = repoStop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

// buildRepos wires the repository bundle for the configured driver. Both
// backends satisfy the same ports; the rest of the process cannot tell them
// apart.
func buildRepos(ctx context.Context, config *apt.Config, logger apt.Logger) (pos.Repos, func(context.Context) error, error) {
	driver := config.GetStringOrDef("db.driver", "mongo")

	switch driver {
	case "mongo":
		baseRepo := mongo.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			return pos.Repos{}, nil, err
		}
		db := baseRepo.GetDatabase()
		if db == nil {
			return pos.Repos{}, nil, errors.New("repository database is nil")
		}
		repos := pos.Repos{
			Tables:   mongo.NewTableRepo(db),
			Orders:   mongo.NewOrderRepo(db),
			Menu:     mongo.NewMenuRepo(db),
			Register: mongo.NewCashRegisterRepo(db),
		}
		return repos, baseRepo.Stop, nil

	case "postgres":
		baseRepo := postgres.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			return pos.Repos{}, nil, err
		}
		pool := baseRepo.GetPool()
		if pool == nil {
			return pos.Repos{}, nil, errors.New("repository pool is nil")
		}
		repos := pos.Repos{
			Tables:   postgres.NewTableRepo(pool),
			Orders:   postgres.NewOrderRepo(pool),
			Menu:     postgres.NewMenuRepo(pool),
			Register: postgres.NewCashRegisterRepo(pool),
		}
		return repos, baseRepo.Stop, nil

	default:
		return pos.Repos{}, nil, errors.New("unknown db.driver: " + driver)
	}
}
