package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/pipeline"
	"github.com/hashheat/hashheat/pkg/ranking"
	"github.com/hashheat/hashheat/pkg/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleChart runs the full pipeline and returns the artifact in the
// requested format. ?format=svg|json overrides the options body.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if format == pipeline.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("X-Compute-Hash", result.ComputeHash)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// rankingResponse is the ranking endpoint body: the user's standing plus the
// compact window, without the chart series.
type rankingResponse struct {
	Metric      string          `json:"metric"`
	MetricValue float64         `json:"metric_value"`
	Direction   string          `json:"direction"`
	Position    string          `json:"position"`
	User        ranking.Entry   `json:"user"`
	Window      []ranking.Entry `json:"window"`
	Size        int             `json:"size"`
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	comp, _, err := s.runner.ComputeWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rankingResponse{
		Metric:      string(comp.Metric),
		MetricValue: comp.MetricValue,
		Direction:   string(comp.Direction),
		Position:    comp.Ranking.Position.Describe(),
		User:        comp.Ranking.User,
		Window:      comp.Ranking.Window(report.DefaultWindowTopN, report.DefaultWindowRadius),
		Size:        comp.Ranking.Position.Size,
	})
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	comp, _, err := s.runner.ComputeWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := pipeline.BuildDocument(comp, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.store != nil {
		if err := s.store.Save(r.Context(), doc); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	summaries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeInvalidInput, "decoding request body"))
		return opts, false
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return opts, false
	}
	return opts, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "report storage is not configured"))
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeInvalidInput, "parsing report id"))
		return uuid.Nil, false
	}
	return id, true
}
