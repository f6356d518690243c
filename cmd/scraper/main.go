package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/domain/repository"
	"github.com/assumable-map/internal/infrastructure/assumable"
	"github.com/assumable-map/internal/pkg/logger"
	"github.com/assumable-map/internal/pkg/metrics"
	"github.com/assumable-map/internal/repository/csvfile"
	"github.com/assumable-map/internal/repository/filecache"
	"github.com/assumable-map/internal/repository/postgres"
	"github.com/assumable-map/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	emitter := metrics.NewZapEmitter(log)
	log.Info("Starting listing scrape",
		zap.String("run_id", emitter.RunID()),
		zap.String("cache_dir", cfg.Cache.Dir),
		zap.String("csv_output", cfg.Export.CSVPath),
		zap.Bool("have_token", cfg.Assumable.Token != ""))

	// 3. Page cache; fetched pages are persisted here before use
	store, err := filecache.New(cfg.Cache.Dir, log)
	if err != nil {
		log.Fatal("Failed to create cache dir", zap.Error(err))
	}

	// 4. Export writers
	csvWriter, err := csvfile.NewListingWriter(cfg.Export.CSVPath, log)
	if err != nil {
		log.Fatal("Failed to create CSV writer", zap.Error(err))
	}
	defer func() {
		if err := csvWriter.Close(); err != nil {
			log.Error("Failed to close CSV writer", zap.Error(err))
		}
	}()
	writers := []repository.ListingWriter{csvWriter}

	if cfg.ExportToPostgres() {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		pgWriter, err := postgres.NewListingWriter(db)
		if err != nil {
			log.Fatal("Failed to prepare listings table", zap.Error(err))
		}
		writers = append(writers, pgWriter)
	}

	// 5. Use cases
	scrapeUC := usecase.NewScrapeUseCase(
		assumable.NewClient(&cfg.Assumable, store, log),
		emitter,
		log,
	)
	exportUC := usecase.NewExportUseCase(writers, emitter, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Run
	listings, err := scrapeUC.FetchAll(ctx)
	if err != nil {
		log.Fatal("Listing fetch failed", zap.Error(err))
	}
	if len(listings) == 0 {
		log.Warn("No listings found")
		os.Exit(2)
	}

	if err := exportUC.Export(listings); err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}

	log.Info("Scrape finished",
		zap.Int("listings", len(listings)),
		zap.String("csv_output", cfg.Export.CSVPath))
}
