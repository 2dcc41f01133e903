// internal/httpx/respond.go
package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"bookstack/internal/apperr"
)

// Success writes a JSON body of the form {"status":"Success", ...payload}.
func Success(w http.ResponseWriter, code int, payload map[string]any) {
	body := map[string]any{"status": "Success"}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, code, body)
}

// Error maps a taxonomy error to its HTTP status and writes the error
// envelope. 4xx responses report status "Fail", 5xx report "Error".
func Error(w http.ResponseWriter, err error) {
	code := StatusOf(err)
	status := "Fail"
	if code >= 500 {
		status = "Error"
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, code, map[string]any{
		"status":  status,
		"message": apperr.MessageOf(err),
	})
}

// StatusOf resolves the HTTP status code for a taxonomy error.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.InvalidArgument, apperr.Conflict:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ParseID parses a client-supplied identifier, naming the entity in the
// rejection message.
func ParseID(raw, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Newf(apperr.InvalidArgument, "Invalid ID format for %s", entity)
	}
	return id, nil
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "Invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
