package promotion

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes promotion HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/promotions", func(r chi.Router) {
		r.Post("/", h.createPromotion)       // POST   /api/v1/promotions
		r.Get("/", h.listPromotions)         // GET    /api/v1/promotions?active=true
		r.Get("/{id}", h.getPromotion)       // GET    /api/v1/promotions/{id}
		r.Put("/{id}", h.updatePromotion)    // PUT    /api/v1/promotions/{id}
		r.Delete("/{id}", h.deletePromotion) // DELETE /api/v1/promotions/{id}
		r.Post("/validate", h.validateCode)  // POST   /api/v1/promotions/validate
	})
}

func (h *Handler) createPromotion(w http.ResponseWriter, r *http.Request) {
	var req CreatePromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreatePromotion(r.Context(), req)
	if err != nil {
		respond(w, badRequestOr(err, http.StatusInternalServerError), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) listPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.service.ListPromotions(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if promos == nil {
		promos = []*Promotion{}
	}
	respond(w, http.StatusOK, promos)
}

func (h *Handler) getPromotion(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPromotion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updatePromotion(w http.ResponseWriter, r *http.Request) {
	var req CreatePromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdatePromotion(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		code := badRequestOr(err, http.StatusInternalServerError)
		if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deletePromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePromotion(r.Context(), chi.URLParam(r, "id")); err != nil {
		code := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "promotion deleted"})
}

func (h *Handler) validateCode(w http.ResponseWriter, r *http.Request) {
	var req ValidateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.ValidateCode(r.Context(), req)
	if err != nil {
		code := http.StatusUnprocessableEntity
		if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		} else if strings.Contains(err.Error(), "required") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func badRequestOr(err error, fallback int) int {
	msg := err.Error()
	if strings.Contains(msg, "required") || strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "negative") || strings.Contains(msg, "exceed") ||
		strings.Contains(msg, "must be") {
		return http.StatusBadRequest
	}
	return fallback
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
