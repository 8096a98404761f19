package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"lostfound-matching/internal/finder"
	"lostfound-matching/internal/generator"
	"lostfound-matching/internal/infrastructure/repository"
	"lostfound-matching/internal/similarity"
	"lostfound-matching/internal/web"
	"lostfound-matching/pkg/config"
	"lostfound-matching/pkg/database"
	"lostfound-matching/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(logging.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		log.Fatal("logger init:", err)
	}
	slog.SetDefault(logger)

	db, err := database.NewWithConfig(cfg.DatabaseURL, cfg)
	if err != nil {
		log.Fatal("database init:", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatal("schema init:", err)
	}

	repo := repository.NewSQLRepository(db)

	simCfg := similarity.DefaultConfig()
	if cfg.WeightsFile != "" {
		simCfg, err = similarity.ConfigFromFile(cfg.WeightsFile)
		if err != nil {
			log.Fatal("weights init:", err)
		}
		logger.Info("similarity weights loaded", "file", cfg.WeightsFile)
	}
	scorer := similarity.NewScorer(simCfg)

	f := finder.New(repo, scorer,
		finder.Config{Threshold: cfg.MatchThreshold},
		logging.ForComponent(logger, "finder"))

	genOpts := []generator.Option{
		generator.WithLogger(logging.ForComponent(logger, "generator")),
	}
	if cfg.WorkerCount > 0 {
		genOpts = append(genOpts, generator.WithPoolSize(cfg.WorkerCount))
	}
	gen, err := generator.New(repo, f, genOpts...)
	if err != nil {
		log.Fatal("generator init:", err)
	}
	defer gen.Release()

	srv := web.NewServer(repo, f, gen, logging.ForComponent(logger, "web"))
	server := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Router()}

	// Graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	go func() {
		fmt.Printf("Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error:", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
