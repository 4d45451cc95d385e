package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/steady/internal/engine"
)

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	signals, err := s.db.ListSignals()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]map[string]any, 0, len(signals))
	for _, sig := range signals {
		out = append(out, map[string]any{
			"name":    sig.Name,
			"preset":  sig.Preset,
			"target":  sig.Target,
			"feature": sig.Feature,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"signals": out})
}

func (s *Server) handleTrackSignal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Preset  string  `json:"preset"`
		Target  float64 `json:"target"`
		Feature string  `json:"feature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := s.engine.Track(req.Name, req.Preset, req.Target, req.Feature); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "tracking", "name": req.Name})
}

func (s *Server) handleUntrackSignal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.engine.Untrack(name); err != nil {
		if errors.Is(err, engine.ErrUnknownSignal) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "untracked", "name": name})
}

// handleObserve accepts either {"value": x} or {"values": [x, ...]}.
func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req struct {
		Value  *float64  `json:"value"`
		Values []float64 `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	switch {
	case req.Value != nil:
		result, err := s.engine.Observe(name, *req.Value)
		if err != nil {
			writeObserveError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)

	case len(req.Values) > 0:
		results, err := s.engine.ObserveBatch(name, req.Values)
		if err != nil {
			writeObserveError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"results": results})

	default:
		writeError(w, http.StatusBadRequest, "value or values required")
	}
}

func writeObserveError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrUnknownSignal) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	steps := 1
	if q := r.URL.Query().Get("steps"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "steps must be a non-negative integer")
			return
		}
		steps = n
	}

	if r.URL.Query().Get("uncertainty") != "" {
		value, uncertainty, err := s.engine.ForecastWithUncertainty(name, steps)
		if err != nil {
			writeObserveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"value":       value,
			"uncertainty": uncertainty,
			"steps":       steps,
		})
		return
	}

	result, err := s.engine.Forecast(name, steps)
	if err != nil {
		writeObserveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"value":        result.Filtered,
		"was_filtered": result.WasFiltered,
		"steps":        steps,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	stats, err := s.engine.Stats(name)
	if err != nil {
		writeObserveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	readings, err := s.db.RecentReadings(name, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]map[string]any, 0, len(readings))
	for _, rd := range readings {
		out = append(out, map[string]any{
			"raw":          rd.Raw,
			"filtered":     rd.Filtered,
			"gain":         rd.Gain,
			"uncertainty":  rd.Uncertainty,
			"was_filtered": rd.WasFiltered,
			"created_at":   rd.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"signal": name, "readings": out})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.engine.ResetSignal(name); err != nil {
		writeObserveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "name": name})
}

func (s *Server) handleGetFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"features": s.features.List()})
}

// handlePutFeatures sets feature flags from {"feature_name": bool, ...}.
func (s *Server) handlePutFeatures(w http.ResponseWriter, r *http.Request) {
	var req map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	for name, on := range req {
		if on {
			s.features.Enable(name)
		} else {
			s.features.Disable(name)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"features": s.features.List()})
}
