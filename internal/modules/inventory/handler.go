package inventory

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phamquangminh/brewpos-backend/internal/modules/auth"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/materials", func(r chi.Router) {
		r.Post("/", h.createMaterial)            // POST  /api/v1/materials
		r.Get("/", h.listMaterials)              // GET   /api/v1/materials?active=true
		r.Get("/low-stock", h.listLowStock)      // GET   /api/v1/materials/low-stock
		r.Get("/{id}", h.getMaterial)            // GET   /api/v1/materials/{id}
		r.Put("/{id}", h.updateMaterial)         // PUT   /api/v1/materials/{id}
		r.Patch("/{id}/stock", h.adjustStock)    // PATCH /api/v1/materials/{id}/stock
		r.Get("/{id}/moves", h.listMoves)        // GET   /api/v1/materials/{id}/moves?limit=20
	})
}

func (h *Handler) createMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.CreateMaterial(r.Context(), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) listMaterials(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	materials, err := h.service.ListMaterials(r.Context(), activeOnly)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if materials == nil {
		materials = []*Material{}
	}
	respond(w, http.StatusOK, materials)
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.ListLowStock(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, materials)
}

func (h *Handler) getMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := parseMaterialID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.GetMaterial(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) updateMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := parseMaterialID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req UpdateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.UpdateMaterial(r.Context(), id, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseMaterialID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	employeeID, _ := auth.EmployeeID(r.Context())
	m, err := h.service.AdjustStock(r.Context(), id, req, employeeID)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) listMoves(w http.ResponseWriter, r *http.Request) {
	id, err := parseMaterialID(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	moves, err := h.service.ListMoves(r.Context(), id, limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if moves == nil {
		moves = []*StockMove{}
	}
	respond(w, http.StatusOK, moves)
}

func parseMaterialID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func statusFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "required") || strings.Contains(msg, "must be"):
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
