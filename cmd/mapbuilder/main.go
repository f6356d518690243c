package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/domain/repository"
	"github.com/assumable-map/internal/infrastructure/greatschools"
	"github.com/assumable-map/internal/infrastructure/leaflet"
	apperrors "github.com/assumable-map/internal/pkg/errors"
	"github.com/assumable-map/internal/pkg/logger"
	"github.com/assumable-map/internal/pkg/metrics"
	"github.com/assumable-map/internal/repository/filecache"
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
	log.Info("Starting map build",
		zap.String("run_id", emitter.RunID()),
		zap.String("cache_dir", cfg.Cache.Dir),
		zap.String("output", cfg.Map.OutputPath),
		zap.Bool("schools_enabled", cfg.Schools.Enabled))

	// 3. Open the page cache (read-only from this pipeline's perspective)
	store := filecache.Open(cfg.Cache.Dir, log)

	// 4. School overlay client, only when enabled
	var schoolRepo repository.SchoolRepository
	if cfg.Schools.Enabled {
		if cfg.Schools.CSRFToken == "" || cfg.Schools.CSRFCookie == "" {
			log.Warn("school credentials missing, overlay may be empty",
				zap.Bool("have_csrf", cfg.Schools.CSRFToken != ""),
				zap.Bool("have_cookie", cfg.Schools.CSRFCookie != ""))
		}
		schoolRepo = greatschools.NewClient(&cfg.Schools, store, log)
	}

	// 5. Assemble the pipeline
	loader := usecase.NewCacheLoader(store, emitter, log)
	overlay := usecase.NewOverlayFetcher(schoolRepo, cfg.Schools.Enabled, emitter, log)
	builder := usecase.NewMapBuildUseCase(
		loader,
		overlay,
		func() repository.MapCanvas { return leaflet.NewCanvas(log) },
		cfg.Map,
		emitter,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Run
	report, err := builder.Build(ctx)
	switch {
	case errors.Is(err, apperrors.ErrEmptyCache), errors.Is(err, apperrors.ErrNothingToRender):
		log.Warn("No coordinates found to map",
			zap.Int("skipped", report.Skipped),
			zap.Error(err))
		os.Exit(2)
	case err != nil:
		log.Fatal("Map build failed", zap.Error(err))
	}

	log.Info("Map build finished",
		zap.Int("pins", report.Points),
		zap.Int("skipped", report.Skipped),
		zap.Int("school_markers", report.Markers),
		zap.String("overlay", string(report.Overlay)),
		zap.String("output", report.OutputPath),
		zap.Duration("elapsed", report.Elapsed))
}
