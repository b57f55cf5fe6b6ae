package upload

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the image upload endpoint and serves stored files.
type Handler struct {
	service Service
	dir     string
}

func NewHandler(service Service, dir string) *Handler {
	return &Handler{service: service, dir: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/uploads", h.uploadImage)
}

// RegisterStatic registers the public file-serving route. Stored images are
// viewable without a token; only uploading is guarded.
func (h *Handler) RegisterStatic(r chi.Router) {
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.dir))))
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "image form field is required"})
		return
	}
	defer file.Close()

	url, err := h.service.SaveImage(header.Filename, file)
	if err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]string{"url": url})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
