package invoice

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes invoice HTTP endpoints.
type Handler struct {
	service Service
	branch  string
}

func NewHandler(service Service, branch string) *Handler {
	return &Handler{service: service, branch: branch}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/invoices", func(r chi.Router) {
		r.Post("/", h.createDraft)                        // POST   /api/v1/invoices
		r.Get("/", h.listInvoices)                        // GET    /api/v1/invoices?status=PENDING
		r.Get("/{id}", h.getInvoice)                      // GET    /api/v1/invoices/{id}
		r.Put("/{id}", h.updateDraft)                     // PUT    /api/v1/invoices/{id}
		r.Delete("/{id}", h.cancelPending)                // DELETE /api/v1/invoices/{id}
		r.Post("/{id}/complete", h.complete)              // POST   /api/v1/invoices/{id}/complete
		r.Get("/tables/{table}", h.tableDrafts)           // GET    /api/v1/invoices/tables/{table}
		r.Delete("/tables/{table}", h.cancelTableDrafts)  // DELETE /api/v1/invoices/tables/{table}
	})
}

func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Branch == "" {
		req.Branch = h.branch
	}
	inv, err := h.service.CreateDraft(r.Context(), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, inv)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.ListInvoices(r.Context(), h.branch, r.URL.Query().Get("status"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if invoices == nil {
		invoices = []*Invoice{}
	}
	respond(w, http.StatusOK, invoices)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	inv, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, inv)
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Branch == "" {
		req.Branch = h.branch
	}
	inv, err := h.service.UpdateDraft(r.Context(), id, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, inv)
}

func (h *Handler) cancelPending(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.CancelPending(r.Context(), id); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "invoice cancelled"})
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.Complete(r.Context(), id, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) tableDrafts(w http.ResponseWriter, r *http.Request) {
	table, err := strconv.Atoi(chi.URLParam(r, "table"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}
	drafts, err := h.service.TableDrafts(r.Context(), h.branch, table)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, drafts)
}

func (h *Handler) cancelTableDrafts(w http.ResponseWriter, r *http.Request) {
	table, err := strconv.Atoi(chi.URLParam(r, "table"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}
	cancelled, err := h.service.CancelTableDrafts(r.Context(), h.branch, table)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]int{"cancelled": cancelled})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func statusFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "only PENDING"):
		return http.StatusUnprocessableEntity
	case strings.Contains(msg, "unavailable"):
		return http.StatusUnprocessableEntity
	case strings.Contains(msg, "required") || strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "at least one") || strings.Contains(msg, "must be"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
