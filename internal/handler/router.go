package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every HTTP route to its handler.
func NewRouter(
	business *BusinessHandler,
	campaign *CampaignHandler,
	scan *ScannerHandler,
	task *TaskHandler,
	analytics *AnalyticsHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/businesses/upload", business.UploadCSV)
	r.Get("/businesses", business.List)
	r.Get("/businesses/{id}", business.Get)
	r.Put("/businesses/{id}", business.Update)
	r.Delete("/businesses/{id}", business.Delete)
	r.Post("/businesses/{id}/contacts", business.AddContact)
	r.Delete("/businesses/{id}/contacts/{contactID}", business.DeleteContact)

	r.Post("/campaigns", campaign.Create)
	r.Get("/campaigns", campaign.List)
	r.Get("/campaigns/{id}", campaign.Get)
	r.Put("/campaigns/{id}", campaign.Update)
	r.Delete("/campaigns/{id}", campaign.Delete)
	r.Post("/campaigns/{id}/send", campaign.Send)
	r.Post("/campaigns/{id}/preview", campaign.Preview)
	r.Post("/campaigns/{id}/pause", campaign.Pause)
	r.Post("/campaigns/{id}/resume", campaign.Resume)

	r.Post("/scan/business/{id}", scan.ScanBusiness)
	r.Post("/scan/all-pending", scan.ScanAllPending)
	r.Get("/scan/status", scan.ScanStatus)

	r.Get("/tasks/{id}/status", task.Status)

	r.Get("/analytics/summary", analytics.Summary)
	r.Get("/analytics/export", analytics.Export)

	return r
}
