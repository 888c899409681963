package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/queue"
	"github.com/openoutreach/outreach-backend/internal/repository"
	"github.com/openoutreach/outreach-backend/internal/scanner"
)

type ScannerHandler struct {
	Scanner    *scanner.Scanner
	Businesses repository.BusinessRepositoryInterface
	Tasks      *queue.TaskQueue
	Logger     *zap.Logger
}

// ScanBusiness triggers a scan for one business, inline or via the worker
// with ?async=true.
func (h *ScannerHandler) ScanBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	business, err := h.Businesses.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("async") == "true" {
		jobID, err := h.Tasks.Submit(r.Context(), queue.TaskScanBusiness, queue.ScanBusinessPayload{BusinessID: id})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message":     "Scan started.",
			"business_id": id,
			"task_id":     jobID,
		})
		return
	}

	if !h.Scanner.Scan(r.Context(), id) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":       fmt.Sprintf("Failed to scan business: %s", business.Name),
			"business_id": id,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Successfully scanned business: %s", business.Name),
		"business_id": id,
	})
}

// ScanAllPending scans every pending business, inline or via the worker.
func (h *ScannerHandler) ScanAllPending(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Businesses.CountByStatus()
	if err != nil {
		writeError(w, err)
		return
	}
	pending := counts[model.BusinessStatusPendingScan]

	if pending == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":       "No businesses with pending_scan status found",
			"scanned_count": 0,
			"total_pending": 0,
		})
		return
	}

	if r.URL.Query().Get("async") == "true" {
		jobID, err := h.Tasks.Submit(r.Context(), queue.TaskScanAllPending, struct{}{})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message":       "Scan started.",
			"total_pending": pending,
			"task_id":       jobID,
		})
		return
	}

	scanned := h.Scanner.ScanAllPending(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Scan completed. Scanned %d out of %d businesses.", scanned, pending),
		"scanned_count": scanned,
		"total_pending": pending,
	})
}

// ScanStatus reports scan progress across the business population.
func (h *ScannerHandler) ScanStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Businesses.CountByStatus()
	if err != nil {
		writeError(w, err)
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	completionRate := 0.0
	if total > 0 {
		done := counts[model.BusinessStatusScanned] + counts[model.BusinessStatusActive]
		completionRate = float64(int(float64(done)/float64(total)*10000+0.5)) / 100
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_businesses":     total,
		"pending_scan":         counts[model.BusinessStatusPendingScan],
		"scanned":              counts[model.BusinessStatusScanned],
		"active":               counts[model.BusinessStatusActive],
		"scan_completion_rate": completionRate,
	})
}
