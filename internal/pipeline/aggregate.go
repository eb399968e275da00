package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
	"golang.org/x/sync/errgroup"
)

// GroupKeyFunc extracts the grouping key (station code or HUC12 code) from
// an observation.
type GroupKeyFunc func(domain.Observation) string

// AggregateOptions configures one aggregation pass.
type AggregateOptions struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Threshold   time.Duration // detection threshold; zero means DefaultDetectionThreshold
	SplitByOrg  bool          // compute gaps per organization instead of per group only
	Workers     int           // worker pool size; zero means GOMAXPROCS
}

// AggregateGaps fans FindGaps out over every (group, organization, property)
// combination and collects the union of the results. One task per triple
// runs on a worker pool bounded to Workers; each task reads its own
// pre-filtered slice and returns freshly allocated gaps, so tasks share no
// mutable state and synchronization happens only at dispatch and collection.
// Results carry the group key (and organization when SplitByOrg) but no
// metadata; JoinMetadata attaches that afterwards.
//
// Any task failure or context cancellation aborts the whole aggregation.
// Inputs are static batch data, so partial results are never useful.
func AggregateGaps(ctx context.Context, obs []domain.Observation, key GroupKeyFunc, groupValues []string, opts AggregateOptions) ([]domain.Gap, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultDetectionThreshold
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	orgs := []domain.Organization{OrganizationAny}
	if opts.SplitByOrg {
		orgs = domain.KnownOrganizations()
	}

	// Bucket observations once up front so each task reads a disjoint,
	// read-only slice instead of re-scanning the full table.
	type seriesKey struct {
		group string
		org   domain.Organization
	}
	buckets := make(map[seriesKey][]domain.Observation)
	for _, o := range obs {
		org := OrganizationAny
		if opts.SplitByOrg {
			org = o.Organization
		}
		k := seriesKey{group: key(o), org: org}
		buckets[k] = append(buckets[k], o)
	}

	props := domain.KnownProperties()
	results := make([][]domain.Gap, len(groupValues)*len(orgs)*len(props))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	task := 0
	for _, group := range groupValues {
		for _, org := range orgs {
			series := buckets[seriesKey{group: group, org: org}]
			for _, prop := range props {
				slot := task
				task++
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					gaps := FindGaps(series, opts.WindowStart, opts.WindowEnd, prop, threshold)
					for i := range gaps {
						gaps[i].GroupKey = group
						if org != OrganizationAny {
							gaps[i].Organization = org
						}
					}
					results[slot] = gaps
					return nil
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []domain.Gap
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

// OrganizationAny marks a series that was not split by organization. It is
// an internal marker, distinct from the persisted OrganizationUnknown code
// only in intent; gaps from unsplit series get their organization from the
// metadata join.
const OrganizationAny = domain.OrganizationUnknown

// GroupFirst builds the one-row-per-group metadata table by taking the
// first-observed row for every grouping key, mirroring how the raw table's
// descriptive columns repeat per sample. Empty keys are skipped.
func GroupFirst(obs []domain.Observation, key GroupKeyFunc) map[string]domain.StationMeta {
	meta := make(map[string]domain.StationMeta)
	for _, o := range obs {
		k := key(o)
		if k == "" {
			continue
		}
		if _, seen := meta[k]; seen {
			continue
		}
		meta[k] = domain.StationMeta{
			Station:      o.Station,
			StationCode:  o.StationCode,
			StationName:  o.StationName,
			Latitude:     o.Latitude,
			Longitude:    o.Longitude,
			HUC12:        o.HUC12,
			HUCName:      o.HUCName,
			County:       o.County,
			State:        o.State,
			Organization: o.Organization,
		}
	}
	return meta
}

// DistinctKeys returns the distinct non-empty grouping key values in first
// appearance order.
func DistinctKeys(obs []domain.Observation, key GroupKeyFunc) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, o := range obs {
		k := key(o)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// KeyField names the gap-table column the grouping key belongs to.
type KeyField int

const (
	KeyHUC12 KeyField = iota
	KeyStationCode
)

// JoinMetadata left-joins gaps with the per-group metadata table. Gaps whose
// group has no metadata row keep zero-valued descriptive fields and the
// OrganizationUnknown sentinel; the grouping key itself always survives the
// join into the column named by keyField. A gap that was computed per
// organization keeps its own organization; otherwise the group's
// first-observed organization is used.
func JoinMetadata(gaps []domain.Gap, meta map[string]domain.StationMeta, keyField KeyField) []domain.GapRow {
	rows := make([]domain.GapRow, 0, len(gaps))
	for _, gap := range gaps {
		row := domain.GapRow{
			Start:        gap.Start,
			Finish:       gap.Finish,
			Property:     gap.Property,
			Organization: gap.Organization,
		}
		if m, ok := meta[gap.GroupKey]; ok {
			row.Station = m.Station
			row.StationCode = m.StationCode
			row.StationName = m.StationName
			row.Latitude = m.Latitude
			row.Longitude = m.Longitude
			row.HUC12 = m.HUC12
			row.HUCName = m.HUCName
			row.County = m.County
			row.State = m.State
			if row.Organization == domain.OrganizationUnknown {
				row.Organization = m.Organization
			}
		}
		switch keyField {
		case KeyHUC12:
			row.HUC12 = gap.GroupKey
		case KeyStationCode:
			row.StationCode = gap.GroupKey
		}
		rows = append(rows, row)
	}
	return rows
}
