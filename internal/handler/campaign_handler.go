package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/queue"
	"github.com/openoutreach/outreach-backend/internal/service"
)

type CampaignHandler struct {
	Service *service.CampaignService
	Tasks   *queue.TaskQueue
	Logger  *zap.Logger
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string `json:"name"`
		MessageTemplate string `json:"message_template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewValidation("invalid request body: %v", err))
		return
	}

	campaign, err := h.Service.Create(body.Name, body.MessageTemplate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Campaign created successfully.",
		"campaign": campaign,
	})
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := h.Service.List(page, perPage, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns":  campaigns,
		"pagination": pagination,
	})
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.Service.Details(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Name            string `json:"name"`
		MessageTemplate string `json:"message_template"`
		Status          string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewValidation("invalid request body: %v", err))
		return
	}

	campaign, err := h.Service.Update(id, body.Name, body.MessageTemplate, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Campaign updated successfully.",
		"campaign": campaign,
	})
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	BusinessIDs []int    `json:"business_ids"`
	Platforms   []string `json:"platforms"`
}

// Send dispatches a campaign. With ?async=true the dispatch is offloaded to
// the background worker.
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body sendRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, apperrors.NewValidation("invalid request body: %v", err))
			return
		}
	}

	if r.URL.Query().Get("async") == "true" {
		jobID, err := h.Tasks.Submit(r.Context(), queue.TaskDispatchCampaign, queue.DispatchCampaignPayload{
			CampaignID:  id,
			BusinessIDs: body.BusinessIDs,
			Platforms:   body.Platforms,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "Campaign sending started.",
			"task_id": jobID,
		})
		return
	}

	result, err := h.Service.Send(r.Context(), id, body.BusinessIDs, body.Platforms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Campaign sending completed. Sent %d messages.", result.SentCount),
		"result":  result,
	})
}

func (h *CampaignHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		sendRequest
		Limit int `json:"limit"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, apperrors.NewValidation("invalid request body: %v", err))
			return
		}
	}

	previews, err := h.Service.Preview(r.Context(), id, body.BusinessIDs, body.Platforms, body.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"previews": previews,
	})
}

func (h *CampaignHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.Pause(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Campaign paused."})
}

func (h *CampaignHandler) Resume(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.Resume(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Campaign resumed."})
}
