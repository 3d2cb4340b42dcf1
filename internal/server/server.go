// Package server exposes terrain generation over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/dsterrain/internal/config"
	"github.com/Faultbox/dsterrain/internal/export"
	"github.com/Faultbox/dsterrain/internal/pipeline"
	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

var (
	generated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dsterrain",
		Name:      "terrains_generated_total",
		Help:      "Terrains generated, by artefact",
	}, []string{"artefact"})
	failures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dsterrain",
		Name:      "generation_errors_total",
		Help:      "Requests rejected because of invalid terrain parameters",
	})
	duration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dsterrain",
		Name:      "generation_seconds",
		Help:      "Time spent building a terrain",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})
)

// Server serves terrain artefacts generated from a base configuration.
type Server struct {
	router *mux.Router
	base   config.Config
	log    *zap.Logger
}

// New creates a server. Request parameters override a copy of cfg per request.
func New(cfg *config.Config, log *zap.Logger) *Server {
	s := &Server{router: mux.NewRouter(), base: *cfg, log: log}
	s.InitRoutes(s.router)
	return s
}

// InitRoutes registers the terrain and metrics routes on r.
func (s *Server) InitRoutes(r *mux.Router) {
	r.HandleFunc("/terrain/heights", s.getHeights).Methods("GET")
	r.HandleFunc("/terrain/preview.png", s.getPreview).Methods("GET")
	r.HandleFunc("/terrain/mesh.bin", s.getMesh).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe blocks serving on the configured address.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.base.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("listening", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func (s *Server) getHeights(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r, pipeline.Options{SkipMesh: true})
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteHeightsJSON(&buf, res.Grid, res.Range); err != nil {
		s.internalError(w, err)
		return
	}
	generated.WithLabelValues("heights").Inc()
	writeBody(w, "application/json", res.Seed, buf.Bytes())
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r, pipeline.Options{SkipMesh: true})
	if !ok {
		return
	}
	scale := s.base.Output.Scale
	var buf bytes.Buffer
	var err error
	if r.URL.Query().Get("mode") == "gray" {
		err = export.WriteHeightPNG(&buf, res.Grid, res.Range, scale)
	} else {
		err = export.WriteColorPNG(&buf, res.Grid, res.Range, res.Ramp, scale)
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	generated.WithLabelValues("preview").Inc()
	writeBody(w, "image/png", res.Seed, buf.Bytes())
}

func (s *Server) getMesh(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r, pipeline.Options{})
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteVertexBuffer(&buf, res.Mesh); err != nil {
		s.internalError(w, err)
		return
	}
	generated.WithLabelValues("mesh").Inc()
	w.Header().Set("X-Vertex-Count", strconv.Itoa(len(res.Mesh.Indices)))
	writeBody(w, "application/octet-stream", res.Seed, buf.Bytes())
}

// build applies query overrides and runs the pipeline, answering 400 on bad input.
func (s *Server) build(w http.ResponseWriter, r *http.Request, opts pipeline.Options) (*pipeline.Result, bool) {
	cfg := s.base
	if err := applyQuery(&cfg, r); err != nil {
		failures.Inc()
		respondWithError(w, http.StatusBadRequest, err)
		return nil, false
	}

	start := time.Now()
	res, err := pipeline.Build(&cfg, opts, s.log)
	if err != nil {
		failures.Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, heightfield.ErrInvalidSize) || errors.Is(err, heightfield.ErrInvalidRoughness) {
			status = http.StatusBadRequest
		}
		respondWithError(w, status, err)
		return nil, false
	}
	duration.Observe(time.Since(start).Seconds())
	return res, true
}

// applyQuery overrides seed, level, roughness and decay from query parameters.
// Levels above server.max_level are refused.
func applyQuery(cfg *config.Config, r *http.Request) error {
	q := r.URL.Query()
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q", v)
		}
		cfg.Terrain.Seed = seed
	}
	if v := q.Get("level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid level %q", v)
		}
		cfg.Terrain.Level = level
	}
	if v := q.Get("roughness"); v != "" {
		rough, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("invalid roughness %q", v)
		}
		cfg.Terrain.Roughness = float32(rough)
	}
	if v := q.Get("decay"); v != "" {
		cfg.Terrain.Decay = v
	}
	if cfg.Terrain.Level > cfg.Server.MaxLevel {
		return fmt.Errorf("level %d exceeds server limit %d", cfg.Terrain.Level, cfg.Server.MaxLevel)
	}
	return cfg.Validate()
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error("writing response", zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, err)
}

func writeBody(w http.ResponseWriter, contentType string, seed uint64, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Terrain-Seed", strconv.FormatUint(seed, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func respondWithError(w http.ResponseWriter, status int, err error) {
	response, _ := json.Marshal(map[string]string{"error": err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}
