package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openoutreach/outreach-backend/internal/queue"
)

type TaskHandler struct {
	Tasks *queue.TaskQueue
}

// Status reports the state, progress and result of a background job.
func (h *TaskHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.Tasks.Status(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]any{
		"state":   job.State,
		"current": job.Current,
		"total":   job.Total,
	}
	if job.Result != nil {
		response["result"] = job.Result
	}
	if job.Error != "" {
		response["error"] = job.Error
	}
	writeJSON(w, http.StatusOK, response)
}
