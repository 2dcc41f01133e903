// internal/catalog/handler.go
package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookstack/internal/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"books": books})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title           string `json:"title"`
		Author          string `json:"author"`
		Description     string `json:"description"`
		PublishedYear   int    `json:"published_year"`
		AvailableCopies int    `json:"available_copies"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	book, err := h.service.CreateBook(r.Context(), NewBook(req.Title, req.Author, req.Description, req.PublishedYear, req.AvailableCopies))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"createdBook": book})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"), "Book")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var patch Patch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.Error(w, err)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, patch)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"updatedBook": book})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"), "Book")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"deleted": id})
}
