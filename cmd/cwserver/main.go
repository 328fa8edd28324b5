// Package main runs the Colonial Weather rules engine as a gRPC service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/colonial-weather/internal/config"
	"github.com/cory-johannsen/colonial-weather/internal/game/combat"
	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/dice"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/gameserver"
	"github.com/cory-johannsen/colonial-weather/internal/observability"
	"github.com/cory-johannsen/colonial-weather/internal/server"
	"github.com/cory-johannsen/colonial-weather/internal/storage"
	"github.com/cory-johannsen/colonial-weather/internal/storage/postgres"
	"github.com/cory-johannsen/colonial-weather/internal/storage/sqlite"
)

const healthInterval = 30 * time.Second

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	autoMigrate := flag.Bool("migrate", true, "apply postgres migrations on startup")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ruleset, err := loadRules(cfg.Rules)
	if err != nil {
		logger.Fatal("loading rules", zap.Error(err))
	}
	logger.Info("rules loaded",
		zap.Int("skills", len(ruleset.Skills)),
		zap.String("armor_policy", string(ruleset.ArmorPolicy)),
	)

	conditions := condition.Builtin()
	if dir := cfg.Rules.ConditionsDir; dir != "" {
		if conditions, err = condition.LoadDirectory(dir); err != nil {
			logger.Fatal("loading condition definitions", zap.Error(err))
		}
	}
	logger.Info("loaded condition definitions", zap.Int("count", len(conditions.All())))

	items := inventory.NewRegistry()
	if dir := cfg.Rules.ItemsDir; dir != "" {
		if items, err = inventory.LoadRegistry(dir); err != nil {
			logger.Fatal("loading item catalog", zap.Error(err))
		}
	}
	logger.Info("loaded item catalog", zap.Int("count", len(items.All())))

	lifecycle := server.NewLifecycle(logger)

	store, err := openStore(ctx, cfg, *autoMigrate, lifecycle, logger)
	if err != nil {
		logger.Fatal("opening actor store", zap.Error(err))
	}

	roller := dice.NewLoggedRoller(diceSource(cfg.Dice), logger, ruleset.MaxExplosionDepth)
	svc := gameserver.NewEngineService(gameserver.Deps{
		Store:      store,
		Rules:      ruleset,
		Conditions: conditions,
		Items:      items,
		Encounters: combat.NewEngine(),
		Roller:     roller,
		Logger:     logger,
	})

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(gameserver.LoggingInterceptor(logger)))
	gameserver.RegisterEngineServer(grpcServer, svc)
	lifecycle.Add("grpc", server.NewGRPCService(cfg.GameServer.Addr(), grpcServer, logger))

	logger.Info("engine initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GameServer.Addr()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("dice", cfg.Dice.Source),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openStore opens the configured actor store and registers its health check,
// which also closes the store on shutdown.
func openStore(ctx context.Context, cfg config.Config, migrate bool, lc *server.Lifecycle, logger *zap.Logger) (storage.ActorStore, error) {
	dbStart := time.Now()
	switch cfg.Storage.Driver {
	case "postgres":
		repo, pool, err := postgres.Open(ctx, cfg.Database, migrate)
		if err != nil {
			return nil, err
		}
		lc.Add("postgres", server.NewPeriodicService("postgres health", healthInterval,
			func(ctx context.Context) error { return pool.Health(ctx, 5*time.Second) },
			pool.Close, logger))
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return repo, nil
	case "sqlite":
		st, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		lc.Add("sqlite", server.NewPeriodicService("sqlite health", healthInterval,
			func(ctx context.Context) error { return st.Health(ctx, 5*time.Second) },
			func() { _ = st.Close() }, logger))
		logger.Info("database opened",
			zap.String("path", cfg.Storage.SQLitePath),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func diceSource(cfg config.DiceConfig) dice.Source {
	if cfg.Source == "seeded" {
		return dice.NewSeededSource(cfg.Seed)
	}
	return dice.NewCryptoSource()
}
