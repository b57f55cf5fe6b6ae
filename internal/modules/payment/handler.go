package payment

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes payment HTTP endpoints.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/vnpay/url", h.createPayURL)         // POST /api/v1/payments/vnpay/url
		r.Get("/vnpay/return", h.handleReturn)       // GET  /api/v1/payments/vnpay/return
		r.Get("/invoice/{id}", h.listByInvoice)      // GET  /api/v1/payments/invoice/{id}
		r.Post("/{txnRef}/refund", h.refund)         // POST /api/v1/payments/{txnRef}/refund
	})
}

func (h *Handler) createPayURL(w http.ResponseWriter, r *http.Request) {
	var req PayURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.ClientIP = clientIP(r)
	res, err := h.service.CreatePayURL(r.Context(), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.HandleReturn(r.Context(), r.URL.Query())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) listByInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid invoice id"})
		return
	}
	txs, err := h.service.ListByInvoice(r.Context(), id)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if txs == nil {
		txs = []*Transaction{}
	}
	respond(w, http.StatusOK, txs)
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	// The body is optional for a refund.
	_ = json.NewDecoder(r.Body).Decode(&body)
	tx, err := h.service.RefundTransaction(r.Context(), chi.URLParam(r, "txnRef"), body.Reason)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, tx)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func statusFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "not pending") || strings.Contains(msg, "not completed"):
		return http.StatusUnprocessableEntity
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
