package pos

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the terminal cart HTTP endpoints. Every route is scoped
// by terminal id; responses always return the full session snapshot so the
// UI can re-render without a follow-up fetch.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/pos/{terminal}", func(r chi.Router) {
		r.Get("/cart", h.view)                         // GET    /api/v1/pos/{terminal}/cart
		r.Post("/cart/items", h.addItem)               // POST   /api/v1/pos/{terminal}/cart/items
		r.Patch("/cart/items/{product_id}", h.updateItem) // PATCH /api/v1/pos/{terminal}/cart/items/{product_id}
		r.Delete("/cart/items/{product_id}", h.removeItem) // DELETE /api/v1/pos/{terminal}/cart/items/{product_id}
		r.Put("/cart/customer", h.attachCustomer)      // PUT    /api/v1/pos/{terminal}/cart/customer
		r.Delete("/cart/customer", h.detachCustomer)   // DELETE /api/v1/pos/{terminal}/cart/customer
		r.Put("/cart/discount", h.setDiscount)         // PUT    /api/v1/pos/{terminal}/cart/discount
		r.Put("/cart/promotion", h.applyPromotion)     // PUT    /api/v1/pos/{terminal}/cart/promotion
		r.Delete("/cart/promotion", h.clearPromotion)  // DELETE /api/v1/pos/{terminal}/cart/promotion
		r.Put("/cart/table", h.setTable)               // PUT    /api/v1/pos/{terminal}/cart/table
		r.Put("/cart/order-type", h.setOrderType)      // PUT    /api/v1/pos/{terminal}/cart/order-type
		r.Delete("/cart", h.clear)                     // DELETE /api/v1/pos/{terminal}/cart
		r.Post("/checkout", h.checkout)                // POST   /api/v1/pos/{terminal}/checkout
		r.Post("/resume-table", h.resumeTable)         // POST   /api/v1/pos/{terminal}/resume-table
	})
}

func terminal(r *http.Request) string { return chi.URLParam(r, "terminal") }

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.View(terminal(r)))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.service.AddItem(r.Context(), terminal(r), req.ProductID, req.Quantity)
	if err != nil {
		respond(w, notFoundOrBad(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int    `json:"quantity,omitempty"`
		Note     *string `json:"note,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	productID := chi.URLParam(r, "product_id")
	var view View
	var err error
	if req.Quantity != nil {
		view, err = h.service.UpdateQuantity(terminal(r), productID, *req.Quantity)
	}
	if err == nil && req.Note != nil {
		view, err = h.service.UpdateNote(terminal(r), productID, *req.Note)
	}
	if err != nil {
		respond(w, notFoundOrBad(err), map[string]string{"error": err.Error()})
		return
	}
	if req.Quantity == nil && req.Note == nil {
		view = h.service.View(terminal(r))
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveItem(terminal(r), chi.URLParam(r, "product_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) attachCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.AttachCustomer(r.Context(), terminal(r), req.CustomerID)
	if err != nil {
		respond(w, notFoundOrBad(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) detachCustomer(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.DetachCustomer(terminal(r)))
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Discount int64 `json:"discount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.service.SetDiscount(terminal(r), req.Discount))
}

func (h *Handler) applyPromotion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.ApplyPromotionCode(r.Context(), terminal(r), req.Code)
	if err != nil {
		code := http.StatusUnprocessableEntity
		if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) clearPromotion(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ClearPromotion(terminal(r)))
}

func (h *Handler) setTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table int `json:"table"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.service.SetTable(terminal(r), req.Table))
}

func (h *Handler) setOrderType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderType string `json:"order_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.SetOrderType(terminal(r), req.OrderType)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Clear(terminal(r)))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Checkout(r.Context(), terminal(r))
	if err != nil {
		code := http.StatusUnprocessableEntity
		if strings.Contains(err.Error(), "empty") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, inv)
}

func (h *Handler) resumeTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table int `json:"table"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.ResumeTable(r.Context(), terminal(r), req.Table)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func notFoundOrBad(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
