package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes reporting HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/summary", h.summary)            // GET /api/v1/dashboard/summary?date=2026-08-29
		r.Get("/top-products", h.topProducts)   // GET /api/v1/dashboard/top-products?from=...&to=...&limit=5
		r.Get("/revenue", h.revenueSeries)      // GET /api/v1/dashboard/revenue?from=...&to=...
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	var (
		summary *Summary
		err     error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, perr := time.ParseInLocation("2006-01-02", raw, time.Local)
		if perr != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		summary, err = h.service.Summary(r.Context(), day)
	} else {
		summary, err = h.service.TodaySummary(r.Context())
	}
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.service.TopProducts(r.Context(), from, to, limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*TopProduct{}
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) revenueSeries(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	points, err := h.service.RevenueSeries(r.Context(), from, to)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if points == nil {
		points = []*RevenuePoint{}
	}
	respond(w, http.StatusOK, points)
}

func parseRange(r *http.Request) (from, to time.Time, err error) {
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return from, to, err
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return from, to, err
		}
		// Make the upper bound inclusive of the named day.
		to = to.Add(24 * time.Hour)
	}
	return from, to, nil
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
