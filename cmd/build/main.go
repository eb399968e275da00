// Command build runs the batch gap-analysis pipeline: it reads the raw
// water-quality export and the HUC12 land-cover reference, classifies every
// observation, detects coverage gaps per watershed region and per station,
// and writes the three output tables consumed by the serve command.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/water-gap-etl/internal/config"
	"github.com/couchcryptid/water-gap-etl/internal/observability"
	"github.com/couchcryptid/water-gap-etl/internal/pipeline"
	"github.com/couchcryptid/water-gap-etl/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	observations := store.NewObservationReader(cfg.WaterCSV)
	regions := store.NewRegionReader(cfg.LandCoverCSV)
	tables := store.NewTableStore(cfg.OutDir)

	builder := pipeline.NewBuilder(observations, regions, tables, logger, metrics,
		cfg.Workers, cfg.DetectionThreshold, cfg.SplitByOrg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := builder.Run(ctx)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	logger.Info("gap tables written",
		"out_dir", cfg.OutDir,
		"window_start", result.WindowStart,
		"window_end", result.WindowEnd,
		"huc_gaps", result.HUCGaps,
		"station_gaps", result.StationGaps,
		"stations", result.Stations,
	)
}
