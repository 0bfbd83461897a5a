package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	"github.com/edp1096/circuit-analyzer/pkg/cache"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/store"
)

type processRequest struct {
	Netlist  string             `json:"netlist"`
	S        string             `json:"s,omitempty"`
	Values   map[string]float64 `json:"values,omitempty"`
	Symbolic *bool              `json:"symbolic,omitempty"`
	Strict   *bool              `json:"strict,omitempty"`
	Solver   string             `json:"solver,omitempty"`
}

// processResults is the payload of a successful analysis.
type processResults struct {
	ID     string `json:"id"`
	Output string `json:"output"`
	*analysis.Report
}

type successResponse struct {
	Status  string `json:"status"`
	Cached  bool   `json:"cached,omitempty"`
	Results any    `json:"results"`
}

type errorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Code    cerrors.Code `json:"code"`
	Details []string     `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.loggerFrom(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Netlist) == "" {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "no netlist content provided"))
		return
	}

	key := cache.Key("analysis", req)
	if data, hit, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("cache get failed", "err", err)
	} else if hit {
		var results json.RawMessage = data
		writeJSON(w, http.StatusOK, successResponse{Status: "success", Cached: true, Results: results})
		return
	}

	params, opts, err := s.options(&req, logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := analysis.Run(ctx, req.Netlist, params, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.NewRecord(req.Netlist, res.Report())
	if err := s.store.Save(ctx, rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	results := processResults{ID: rec.ID, Output: res.Text(), Report: rec.Report}

	if data, err := json.Marshal(results); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			logger.Warn("cache set failed", "err", err)
		}
	}
	logger.Debug("analysis stored", "id", rec.ID, "unknowns", len(res.System.X))
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Results: results})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Results: rec})
}

// statusFor maps error codes to HTTP status: malformed requests are 400,
// circuits that cannot be analyzed are 422.
func statusFor(code cerrors.Code) int {
	switch code {
	case cerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case cerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cerrors.ErrCodeFormat,
		cerrors.ErrCodeUnknownElement,
		cerrors.ErrCodeNodeContinuity,
		cerrors.ErrCodeUnresolvedReference,
		cerrors.ErrCodeSourceCountMismatch,
		cerrors.ErrCodeUnresolvedParameter,
		cerrors.ErrCodeSingularSystem:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := cerrors.GetCode(err)
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	status := statusFor(code)

	resp := errorResponse{Status: "error", Code: code, Message: cerrors.UserMessage(err)}
	if all := cerrors.All(err); len(all) > 1 {
		for _, e := range all {
			resp.Details = append(resp.Details, cerrors.UserMessage(e))
		}
	}

	logger := s.loggerFrom(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "err", err)
	} else {
		logger.Debug("request rejected", "code", code, "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
