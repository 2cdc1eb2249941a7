package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TheApo/compile-sub002/internal/config"
	"github.com/TheApo/compile-sub002/internal/protocols"
	"github.com/TheApo/compile-sub002/internal/repository"
	"github.com/TheApo/compile-sub002/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting compile server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Cancel the context on SIGINT/SIGTERM to drive graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	library := protocols.NewLibrary()
	if cfg.Game.ProtocolsDir != "" {
		loaded, loadErr := protocols.LoadDir(library, cfg.Game.ProtocolsDir)
		if loadErr != nil {
			logger.Warn("failed to load protocol files", zap.Error(loadErr))
		}
		if len(loaded) > 0 {
			logger.Info("loaded protocol files",
				zap.Strings("protocols", loaded),
				zap.String("dir", cfg.Game.ProtocolsDir),
			)
		}
	}

	// The server runs without a database; matches just stay in memory.
	var matchRepo *repository.MatchRepository
	if cfg.Database.URL != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Warn("database unavailable, running in-memory", zap.Error(dbErr))
		} else {
			defer db.Close()
			stats := db.Stats()
			logger.Info("database connection pool initialized",
				zap.Int32("total_conns", stats.TotalConns()),
				zap.Int32("idle_conns", stats.IdleConns()),
			)
			matchRepo = repository.NewMatchRepository(db)

			protoRepo := repository.NewProtocolRepository(db)
			if n, repoErr := protoRepo.LoadAll(ctx, library); repoErr != nil {
				logger.Warn("failed to load protocols from database", zap.Error(repoErr))
			} else if n > 0 {
				logger.Info("loaded protocols from database", zap.Int("count", n))
			}
		}
	}

	matches := server.NewMatchManager(logger, library, matchRepo, cfg.Game.UseControl, cfg.Server.MaxMatches)
	logger.Info("match manager initialized",
		zap.Int("max_matches", cfg.Server.MaxMatches),
		zap.Bool("control_component", cfg.Game.UseControl),
		zap.Strings("protocols", library.Names()),
	)

	hub := server.NewHub(logger, matches)
	srv := server.NewServer(logger, cfg.Server, hub)

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("compile server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
