package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/openoutreach/outreach-backend/internal/service"
)

type AnalyticsHandler struct {
	Service *service.AnalyticsService
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rangeDays := queryInt(r, "date_range", 30)

	summary, err := h.Service.Summary(rangeDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Export streams per-campaign performance as a CSV attachment.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	rangeDays := queryInt(r, "date_range", 30)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=analytics_export_%s.csv", time.Now().Format("20060102_150405")))

	if err := h.Service.ExportCSV(w, rangeDays); err != nil {
		writeError(w, err)
	}
}
