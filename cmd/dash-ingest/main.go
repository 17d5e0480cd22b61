package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ai15/dash-ingest/internal/analyzer"
	"github.com/ai15/dash-ingest/internal/config"
	"github.com/ai15/dash-ingest/internal/fetcher"
	"github.com/ai15/dash-ingest/internal/runner"
	"github.com/ai15/dash-ingest/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// .env is optional; environment variables set in the process win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	f, err := fetcher.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create fetcher: %v", err)
	}

	a, err := analyzer.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create analyzer: %v", err)
	}

	st, err := store.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	r := runner.New(cfg.FeedURL, cfg.MaxPapers, cfg.Analyzer.Model, f, a, st)

	// Single-run mode: run the pipeline once and exit. Per-paper failures are
	// reported in the summary but only a feed-level failure is fatal.
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log.Println("Running ingestion (once mode)...")
		summary, err := r.Run(ctx)
		if err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		log.Printf("Done (fetched=%d stored=%d failed=%d)", summary.Fetched, summary.Stored, summary.Failed)
		return
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run immediately on startup if configured
	if cfg.RunOnStart {
		log.Println("Running initial ingestion...")
		if _, err := r.Run(ctx); err != nil {
			log.Printf("Initial run failed: %v", err)
		}
	}

	// Set up cron scheduler
	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Println("Cron triggered, running ingestion...")
		if _, err := r.Run(ctx); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.Printf("Scheduled ingestion with cron expression: %s", cfg.Schedule)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()
	log.Println("Shutdown complete")
}
