package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/failparse/failparse/internal/enhance"
	"github.com/failparse/failparse/pkg/models"
)

// handleBatch enhances a batch of results and reports parsing stats.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	resp, err := s.enhancer.ProcessBatch(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleUpdate processes one progressive single-result update.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	executionID := r.PathValue("executionID")
	if executionID == "" {
		writeError(w, http.StatusBadRequest, "execution ID is required")
		return
	}

	var req models.BatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.tracker.ProcessUpdate(executionID, req)
	switch {
	case errors.Is(err, enhance.ErrMissingResults),
		errors.Is(err, enhance.ErrSingleResult),
		errors.Is(err, enhance.ErrMissingID):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSummary reports progress of one tracked execution.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.tracker.Summary(r.PathValue("executionID"))
	if errors.Is(err, enhance.ErrUnknownExecution) {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "summary failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleStats reports parsing effectiveness across tracked executions.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.ParsingStats())
}
