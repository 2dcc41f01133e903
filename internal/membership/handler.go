// internal/membership/handler.go
package membership

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

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.service.SignUp(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"user":         session.User,
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}

	user, err := h.service.Profile(r.Context(), principal.UserID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"user": user})
}
