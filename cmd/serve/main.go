// Command serve loads the persisted gap tables read-only and exposes the
// query API the dashboard filters against, plus health and metrics
// endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/water-gap-etl/internal/adapter/http"
	"github.com/couchcryptid/water-gap-etl/internal/config"
	"github.com/couchcryptid/water-gap-etl/internal/observability"
	"github.com/couchcryptid/water-gap-etl/internal/query"
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

	tables := store.NewTableStore(cfg.OutDir)

	hucGaps, err := tables.LoadHUCGaps()
	if err != nil {
		logger.Error("failed to load HUC12 gap table", "error", err)
		os.Exit(1)
	}
	stationGaps, err := tables.LoadStationGaps()
	if err != nil {
		logger.Error("failed to load station gap table", "error", err)
		os.Exit(1)
	}
	stations, err := tables.LoadStations()
	if err != nil {
		logger.Error("failed to load station metadata table", "error", err)
		os.Exit(1)
	}

	data := query.NewContext(hucGaps, stationGaps, stations)
	h, s, st := data.Sizes()
	metrics.TableRows.WithLabelValues("huc12").Set(float64(h))
	metrics.TableRows.WithLabelValues("station").Set(float64(s))
	metrics.TableRows.WithLabelValues("stations").Set(float64(st))
	logger.Info("gap tables loaded", "huc_gaps", h, "station_gaps", s, "stations", st)

	srv := httpadapter.NewServer(cfg.HTTPAddr, data, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
