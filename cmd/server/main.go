// Package main contains the entrypoint for the CargoWatch backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/autologist/cargowatch/internal/annotator"
	"github.com/autologist/cargowatch/internal/announcer"
	"github.com/autologist/cargowatch/internal/api"
	"github.com/autologist/cargowatch/internal/cache"
	"github.com/autologist/cargowatch/internal/config"
	"github.com/autologist/cargowatch/internal/database"
	"github.com/autologist/cargowatch/internal/logger"
	"github.com/autologist/cargowatch/internal/parser"
	"github.com/autologist/cargowatch/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, db, cache, parser
// supervisor, HTTP server, scheduler), blocks until shutdown, and
// returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	chatCache := cache.New(nil, "cargowatch:", cfg.Redis.ChatCacheTTL, log)
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			// The cache fronts a recoverable lookup; run without it.
			log.Warn("Redis unavailable, chat-list caching disabled", "error", err)
		} else {
			defer rdb.Close()
			chatCache = cache.New(rdb, "cargowatch:", cfg.Redis.ChatCacheTTL, log)
		}
	}

	supervisor := parser.NewSupervisor(parser.Config{
		Python:          cfg.Parser.Python,
		Script:          cfg.Parser.Script,
		ChatListScript:  cfg.Parser.ChatListScript,
		WorkDir:         cfg.Parser.WorkDir,
		ChatListTimeout: cfg.Parser.ChatListTimeout,
	}, parser.OSInspector{}, log)

	var annotatorTask scheduler.Annotator
	if cfg.AI.Token != "" {
		ann, err := annotator.New(ctx, cfg.AI, store, log)
		if err != nil {
			log.Error("Failed to initialize annotator", "error", err)
			return 1
		}
		annotatorTask = ann
	} else {
		log.Info("AI token not configured, annotation task disabled")
	}

	var dispatcherTask scheduler.Dispatcher
	if cfg.Telegram.BotToken != "" {
		disp, err := announcer.New(cfg.Telegram.BotToken, store, log)
		if err != nil {
			log.Error("Failed to initialize announcer", "error", err)
			return 1
		}
		dispatcherTask = disp
	} else {
		log.Info("Bot token not configured, announcement dispatch disabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Scheduler,
		scheduler.Tasks(store, cfg.Retention.Days, annotatorTask, dispatcherTask, log), log)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	production := cfg.Server.Mode == "production"
	srv := api.NewServer(store, supervisor, chatCache, production, log)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := sched.Start(); err != nil {
		log.Error("Failed to start scheduler", "error", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening", "port", cfg.Server.Port, "mode", cfg.Server.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown failed", "error", err)
		}
		if err := sched.Stop(); err != nil {
			log.Error("Scheduler shutdown failed", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Server stopped due to error", "error", err)
		return 1
	}

	log.Info("Server stopped gracefully.")
	return 0
}
