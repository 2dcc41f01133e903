// internal/circulation/handler.go
package circulation

import (
	"net/http"

	"bookstack/internal/auth"
	"bookstack/internal/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"bookId"`
		UserID string `json:"userId"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	bookID, err := httpx.ParseID(req.BookID, "Book")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	userID, err := httpx.ParseID(req.UserID, "User")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	loan, err := h.service.BorrowBook(r.Context(), bookID, userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"transaction": loan})
}

// HandleReturn takes the user from the authenticated principal, not the
// request body.
func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}

	var req struct {
		BookID string `json:"bookId"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	bookID, err := httpx.ParseID(req.BookID, "Book")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	loan, err := h.service.ReturnBook(r.Context(), bookID, principal.UserID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"returnedBook": loan})
}

func (h *Handler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}

	loans, err := h.service.ListUserLoans(r.Context(), principal.UserID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"transactions": loans})
}
