package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/failparse/failparse/pkg/models"
)

// progressEvent is one SSE payload for a processed update.
type progressEvent struct {
	ExecutionID string            `json:"executionId"`
	Result      models.TestResult `json:"result"`
}

// handleEvents streams progressive updates for one execution as
// Server-Sent Events until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	executionID := r.PathValue("executionID")
	if executionID == "" {
		writeError(w, http.StatusBadRequest, "execution ID is required")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Observer stays registered for the execution's lifetime; once the
	// client is gone events are dropped on the floor.
	events := make(chan progressEvent, 64)
	s.tracker.OnProgress(executionID, func(id string, result models.TestResult) {
		select {
		case events <- progressEvent{ExecutionID: id, Result: result}:
		default:
		}
	})

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
