// Package api exposes stored run results over a small JSON HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lcmonte/domain/core"
	"lcmonte/internal"
	"lcmonte/ports"
)

// Server serves run and summary listings from the repository.
type Server struct {
	repo ports.SummaryRepository
	log  *internal.Logger
}

// NewServer creates a results API server.
func NewServer(repo ports.SummaryRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{repo: repo, log: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}/summaries", s.handleListSummaries)
	return r
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("results API listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.repo.ListRuns(r.Context())
	if err != nil {
		s.log.Error("list runs: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// summaryResponse mirrors ports.SummaryRecord with JSON-safe numbers: NaN
// means/stddevs (undefined statistics) serialize as null.
type summaryResponse struct {
	RunID           string   `json:"run_id"`
	BinLabel        string   `json:"bin_label"`
	Family          string   `json:"family"`
	Statistic       string   `json:"statistic"`
	Mean            *float64 `json:"mean"`
	StdDev          *float64 `json:"stddev"`
	DefinedFraction float64  `json:"defined_fraction"`
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	runID := core.ID(chi.URLParam(r, "id"))
	if !runID.IsValid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return
	}

	records, err := s.repo.ListSummaries(r.Context(), runID)
	if errors.Is(err, core.ErrRunNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	if err != nil {
		s.log.Error("list summaries for %s: %v", runID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list summaries"})
		return
	}

	out := make([]summaryResponse, len(records))
	for i, rec := range records {
		out[i] = summaryResponse{
			RunID:           rec.RunID.String(),
			BinLabel:        rec.BinLabel,
			Family:          string(rec.Family),
			Statistic:       rec.Statistic,
			Mean:            jsonFloat(rec.Mean),
			StdDev:          jsonFloat(rec.StdDev),
			DefinedFraction: rec.DefinedFraction,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
