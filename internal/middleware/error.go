package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON error body shared with the API handlers
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// responseRecorder is a custom ResponseWriter to capture status and body
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       string
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	if statusCode >= 400 {
		r.ResponseWriter.Header().Set("Content-Type", "application/json")
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.statusCode >= 400 {
		r.body += string(b)
		// The plain-text body is replaced by the JSON error
		return len(b), nil
	}
	return r.ResponseWriter.Write(b)
}

// ErrorHandler wraps plain net/http handlers (such as /metrics) so that
// failures and panics come back in the API's JSON error shape
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[ErrorHandler] panic serving %s: %v", r.URL.Path, err)
				rec.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal Server Error"})
			} else if rec.statusCode >= 400 {
				log.Printf("[ErrorHandler] %s returned %d", r.URL.Path, rec.statusCode)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error:     strings.TrimSpace(rec.body),
					Retryable: rec.statusCode >= 500,
				})
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
