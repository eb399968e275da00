package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
	"github.com/couchcryptid/water-gap-etl/internal/observability"
)

// ObservationExtractor reads the full raw observation table from the source.
type ObservationExtractor interface {
	ExtractObservations(ctx context.Context) ([]domain.RawObservation, error)
}

// RegionExtractor reads the HUC12 watershed reference table.
type RegionExtractor interface {
	ExtractRegions(ctx context.Context) ([]domain.Region, error)
}

// TableWriter persists the three output tables. Implementations must only
// replace an existing table on a fully successful write.
type TableWriter interface {
	WriteHUCGaps(rows []domain.GapRow) error
	WriteStationGaps(rows []domain.GapRow) error
	WriteStations(meta []domain.StationMeta) error
}

// BuildResult summarizes one completed build run.
type BuildResult struct {
	Observations int
	UnknownRows  int
	WindowStart  time.Time
	WindowEnd    time.Time
	HUCGaps      int
	StationGaps  int
	Stations     int
	CompletedAt  time.Time
}

// Builder runs the batch gap-analysis pipeline: extract raw observations
// and region reference data, classify every row, detect coverage gaps per
// region and per station, join metadata, and persist the gap tables.
type Builder struct {
	observations ObservationExtractor
	regions      RegionExtractor
	writer       TableWriter
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool

	workers    int
	threshold  time.Duration
	splitByOrg bool
}

// NewBuilder creates a Builder. workers <= 0 sizes the pool to the available
// cores; threshold 0 uses the default 1-day detection threshold;
// splitByOrg computes each group's gaps per contributing organization
// instead of across the combined series.
func NewBuilder(obs ObservationExtractor, regions RegionExtractor, writer TableWriter, logger *slog.Logger, metrics *observability.Metrics, workers int, threshold time.Duration, splitByOrg bool) *Builder {
	if threshold == 0 {
		threshold = DefaultDetectionThreshold
	}
	return &Builder{
		observations: obs,
		regions:      regions,
		writer:       writer,
		logger:       logger,
		metrics:      metrics,
		workers:      workers,
		threshold:    threshold,
		splitByOrg:   splitByOrg,
	}
}

// CheckReadiness returns nil once a build has completed successfully.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if !b.ready.Load() {
		return errors.New("no build has completed yet")
	}
	return nil
}

// Run executes one full build. Any stage failure aborts the run; output
// tables are only written after every stage has succeeded, so a failed run
// never leaves partial tables behind.
func (b *Builder) Run(ctx context.Context) (BuildResult, error) {
	start := clock.Now()
	b.metrics.BuildRunning.Set(1)
	defer b.metrics.BuildRunning.Set(0)

	raw, err := b.observations.ExtractObservations(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("extract observations: %w", err)
	}
	b.logger.Info("observations extracted", "rows", len(raw))
	b.metrics.ObservationsExtracted.Add(float64(len(raw)))

	regions, err := b.regions.ExtractRegions(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("extract regions: %w", err)
	}
	b.logger.Info("regions extracted", "rows", len(regions))

	obs, err := b.classify(raw)
	if err != nil {
		return BuildResult{}, fmt.Errorf("classify observations: %w", err)
	}
	unknown := 0
	for _, o := range obs {
		if o.Property == domain.PropertyUnknown {
			unknown++
		}
	}
	b.metrics.UnknownParameters.Add(float64(unknown))
	b.logger.Info("observations classified", "rows", len(obs), "unknown_property", unknown)

	if len(obs) == 0 {
		return BuildResult{}, errors.New("no observations to analyze")
	}

	windowStart, windowEnd := observationWindow(obs)
	b.logger.Info("analysis window derived", "start", windowStart, "end", windowEnd)

	opts := AggregateOptions{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Threshold:   b.threshold,
		SplitByOrg:  b.splitByOrg,
		Workers:     b.workers,
	}

	hucKey := func(o domain.Observation) string { return o.HUC12 }
	hucValues := make([]string, 0, len(regions))
	for _, r := range regions {
		hucValues = append(hucValues, r.HUC12)
	}
	hucGaps, err := AggregateGaps(ctx, obs, hucKey, hucValues, opts)
	if err != nil {
		return BuildResult{}, fmt.Errorf("aggregate HUC12 gaps: %w", err)
	}
	hucRows := JoinMetadata(hucGaps, GroupFirst(obs, hucKey), KeyHUC12)
	b.metrics.GapsDetected.WithLabelValues("huc12").Add(float64(len(hucRows)))
	b.logger.Info("HUC12 gaps aggregated", "gaps", len(hucRows), "regions", len(hucValues))

	stationKey := func(o domain.Observation) string { return o.StationCode }
	stationValues := DistinctKeys(obs, stationKey)
	stationGaps, err := AggregateGaps(ctx, obs, stationKey, stationValues, opts)
	if err != nil {
		return BuildResult{}, fmt.Errorf("aggregate station gaps: %w", err)
	}
	stationMeta := GroupFirst(obs, stationKey)
	stationRows := JoinMetadata(stationGaps, stationMeta, KeyStationCode)
	b.metrics.GapsDetected.WithLabelValues("station").Add(float64(len(stationRows)))
	b.logger.Info("station gaps aggregated", "gaps", len(stationRows), "stations", len(stationValues))

	stations := make([]domain.StationMeta, 0, len(stationValues))
	for _, code := range stationValues {
		stations = append(stations, stationMeta[code])
	}

	if err := b.writer.WriteHUCGaps(hucRows); err != nil {
		return BuildResult{}, fmt.Errorf("write HUC12 gap table: %w", err)
	}
	if err := b.writer.WriteStationGaps(stationRows); err != nil {
		return BuildResult{}, fmt.Errorf("write station gap table: %w", err)
	}
	if err := b.writer.WriteStations(stations); err != nil {
		return BuildResult{}, fmt.Errorf("write station metadata table: %w", err)
	}

	b.metrics.BuildDuration.Observe(clock.Since(start).Seconds())
	b.ready.Store(true)

	result := BuildResult{
		Observations: len(obs),
		UnknownRows:  unknown,
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		HUCGaps:      len(hucRows),
		StationGaps:  len(stationRows),
		Stations:     len(stations),
		CompletedAt:  clock.Now(),
	}
	b.logger.Info("build complete",
		"observations", result.Observations,
		"huc_gaps", result.HUCGaps,
		"station_gaps", result.StationGaps,
		"stations", result.Stations,
		"duration", clock.Since(start),
	)
	return result, nil
}

// classify derives the canonical columns for every raw row on the parallel
// mapper. One bad row fails the whole build.
func (b *Builder) classify(raw []domain.RawObservation) ([]domain.Observation, error) {
	return ParallelMap(raw, b.workers, func(part []domain.RawObservation) ([]domain.Observation, error) {
		out := make([]domain.Observation, 0, len(part))
		for _, r := range part {
			o, err := domain.ClassifyObservation(r)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
		return out, nil
	})
}

// observationWindow returns the [min, max] DateTime across all observations.
func observationWindow(obs []domain.Observation) (time.Time, time.Time) {
	start, end := obs[0].DateTime, obs[0].DateTime
	for _, o := range obs[1:] {
		if o.DateTime.Before(start) {
			start = o.DateTime
		}
		if o.DateTime.After(end) {
			end = o.DateTime
		}
	}
	return start, end
}
