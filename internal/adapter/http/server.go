package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
	"github.com/couchcryptid/water-gap-etl/internal/observability"
	"github.com/couchcryptid/water-gap-etl/internal/query"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the gap tables to the dashboard: health, readiness, and
// metrics endpoints plus the read-only query API.
type Server struct {
	httpServer *http.Server
	data       *query.Context
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server over the loaded data context.
func NewServer(addr string, data *query.Context, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:    data,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/gaps/huc12", s.handleGaps("huc12", data.HUCGaps))
	mux.HandleFunc("GET /v1/gaps/stations", s.handleGaps("station", data.StationGaps))
	mux.HandleFunc("GET /v1/stations", s.handleStations)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if err := s.data.CheckReadiness(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// gapRow is the wire shape of one gap table row. Enumeration codes and
// display labels are both included so the dashboard never re-derives labels.
type gapRow struct {
	Start            time.Time `json:"start"`
	Finish           time.Time `json:"finish"`
	ElapsedDays      float64   `json:"elapsed_days"`
	Property         int       `json:"property"`
	PropertyName     string    `json:"property_name"`
	Organization     int       `json:"organization"`
	OrganizationName string    `json:"organization_name"`
	Station          string    `json:"station,omitempty"`
	StationCode      string    `json:"station_code,omitempty"`
	StationName      string    `json:"station_name,omitempty"`
	HUC12            string    `json:"huc12,omitempty"`
	HUCName          string    `json:"huc_name,omitempty"`
	Latitude         float64   `json:"latitude,omitempty"`
	Longitude        float64   `json:"longitude,omitempty"`
	County           string    `json:"county,omitempty"`
	State            string    `json:"state,omitempty"`
}

func (s *Server) handleGaps(table string, filter func(query.Params) []domain.GapRow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseQueryParams(r)
		if err != nil {
			s.metrics.QueryRequests.WithLabelValues(table, "invalid_filter").Inc()
			s.logger.Warn("query rejected", "table", table, "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		start := time.Now()
		rows := filter(params)
		s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
		s.metrics.QueryRequests.WithLabelValues(table, "success").Inc()

		out := make([]gapRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, gapRow{
				Start:            row.Start,
				Finish:           row.Finish,
				ElapsedDays:      row.ElapsedDays(),
				Property:         int(row.Property),
				PropertyName:     row.Property.Label(),
				Organization:     int(row.Organization),
				OrganizationName: row.Organization.Label(),
				Station:          row.Station,
				StationCode:      row.StationCode,
				StationName:      row.StationName,
				HUC12:            row.HUC12,
				HUCName:          row.HUCName,
				Latitude:         row.Latitude,
				Longitude:        row.Longitude,
				County:           row.County,
				State:            row.State,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type stationRow struct {
	Station          string  `json:"station,omitempty"`
	StationCode      string  `json:"station_code"`
	StationName      string  `json:"station_name,omitempty"`
	HUC12            string  `json:"huc12,omitempty"`
	HUCName          string  `json:"huc_name,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	County           string  `json:"county,omitempty"`
	State            string  `json:"state,omitempty"`
	Organization     int     `json:"organization"`
	OrganizationName string  `json:"organization_name"`
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	stations := s.data.Stations()
	out := make([]stationRow, 0, len(stations))
	for _, m := range stations {
		out = append(out, stationRow{
			Station:          m.Station,
			StationCode:      m.StationCode,
			StationName:      m.StationName,
			HUC12:            m.HUC12,
			HUCName:          m.HUCName,
			Latitude:         m.Latitude,
			Longitude:        m.Longitude,
			County:           m.County,
			State:            m.State,
			Organization:     int(m.Organization),
			OrganizationName: m.Organization.Label(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// parseQueryParams maps URL query values onto query.ParseParams. Defaults
// mirror the dashboard's initial filter state: between-range, 30-day
// threshold, all organizations.
func parseQueryParams(r *http.Request) (query.Params, error) {
	q := r.URL.Query()

	rangeType, err := intOrDefault(q.Get("range_type"), int(domain.DateRangeBetween))
	if err != nil {
		return query.Params{}, err
	}
	thresholdDays, err := intOrDefault(q.Get("threshold_days"), 30)
	if err != nil {
		return query.Params{}, err
	}
	organization, err := intOrDefault(q.Get("organization"), int(domain.OrganizationUnknown))
	if err != nil {
		return query.Params{}, err
	}

	var properties []int
	if raw := q.Get("properties"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			code, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return query.Params{}, errors.Join(query.ErrInvalidFilter, err)
			}
			properties = append(properties, code)
		}
	}

	under := q.Get("under") == "true"

	return query.ParseParams(rangeType, q.Get("start"), q.Get("end"), thresholdDays, under, properties, organization)
}

func intOrDefault(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Join(query.ErrInvalidFilter, err)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
