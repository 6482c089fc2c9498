package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Cheertaboi/restaurant-service/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeSuccess(w http.ResponseWriter, code int, data any, message string) {
	writeJSON(w, code, envelope{Success: true, Data: data, Message: message})
}

// statusFor maps a service error to its HTTP status. Anything that is not a
// *service.Error is treated as a server fault.
func statusFor(err error) (int, *service.Error) {
	var se *service.Error
	if !errors.As(err, &se) {
		return http.StatusInternalServerError, &service.Error{Kind: service.KindPersistence, Message: "Internal server error"}
	}
	switch se.Kind {
	case service.KindValidation, service.KindIneligible:
		if se.Code == service.CodeNotFound {
			return http.StatusNotFound, se
		}
		return http.StatusBadRequest, se
	case service.KindTimeout:
		return http.StatusServiceUnavailable, se
	default:
		return http.StatusInternalServerError, se
	}
}

// writeError writes {success: false, error} for the envelope endpoints.
func writeError(w http.ResponseWriter, err error) {
	code, se := statusFor(err)
	if code == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, code, envelope{Success: false, Error: se.Message})
}

// writeBareError writes {error} for the catalog endpoints, which return
// bare payloads on success.
func writeBareError(w http.ResponseWriter, err error) {
	code, se := statusFor(err)
	if code == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, code, map[string]string{"error": se.Message})
}

// decodeBody reads a single JSON object from r into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &service.Error{Kind: service.KindValidation, Message: "Request body is required"}
		}
		return &service.Error{Kind: service.KindValidation, Message: "Invalid request body", Err: err}
	}
	return nil
}

// cacheFor marks a public response as cacheable by shared caches.
func cacheFor(w http.ResponseWriter, maxAge, staleWhileRevalidate int) {
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", maxAge, staleWhileRevalidate))
}
