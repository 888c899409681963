package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/queue"
	"github.com/openoutreach/outreach-backend/internal/service"
)

type BusinessHandler struct {
	Service *service.BusinessService
	Tasks   *queue.TaskQueue
	Logger  *zap.Logger
}

const maxUploadBytes = 10 << 20 // 10 MiB

// UploadCSV ingests a business CSV. With ?async=true the file is handed to
// the background worker and a job id returned; otherwise the import runs on
// the request path.
func (h *BusinessHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, apperrors.NewValidation("invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.NewValidation("no file provided"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, apperrors.NewValidation("invalid file type, only CSV files are allowed"))
		return
	}

	if r.URL.Query().Get("async") == "true" {
		content, err := io.ReadAll(file)
		if err != nil {
			writeError(w, err)
			return
		}
		jobID, err := h.Tasks.Submit(r.Context(), queue.TaskProcessCSV, queue.ProcessCSVPayload{CSVContent: string(content)})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "CSV processing started.",
			"task_id": jobID,
		})
		return
	}

	report, err := h.Service.ImportCSV(file, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "CSV processing completed.",
		"result":  report,
	})
}

func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("search")

	businesses, pagination, err := h.Service.List(page, perPage, status, search)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"businesses": businesses,
		"pagination": pagination,
	})
}

func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	business, contacts, err := h.Service.GetWithContacts(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"business": business,
		"contacts": contacts,
	})
}

func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body map[string]*string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewValidation("invalid request body: %v", err))
		return
	}

	fields := map[string]string{}
	for _, key := range []string{"name", "website", "email", "phone_number", "address", "status"} {
		if v, ok := body[key]; ok && v != nil {
			fields[key] = *v
		}
	}

	business, err := h.Service.Update(id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Business updated successfully.",
		"business": business,
	})
}

func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *BusinessHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Type      string `json:"type"`
		Value     string `json:"value"`
		Source    string `json:"source"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewValidation("invalid request body: %v", err))
		return
	}
	if body.Source == "" {
		body.Source = model.ContactSourceManual
	}

	contact, err := h.Service.AddContact(id, body.Type, body.Value, body.Source, body.IsPrimary)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Contact added successfully.",
		"contact": contact,
	})
}

func (h *BusinessHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	businessID, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	contactID, err := urlParamInt(r, "contactID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteContact(businessID, contactID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func urlParamInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperrors.NewValidation("invalid %s", name)
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return def
	}
	return i
}
