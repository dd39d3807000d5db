// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sailsizzle/regatta/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest          = 400
	statusNotFound            = 404
	statusUnprocessableEntity = 422
	statusInternalError       = 500
	statusServiceUnavailable  = 503
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		statusCodeStr := strconv.Itoa(wrapped.statusCode)
		metrics.ObserveHTTP(endpoint, r.Method, statusCodeStr, time.Since(start).Seconds())

		if wrapped.statusCode >= statusBadRequest {
			metrics.RecordHTTPError(endpoint, getErrorType(wrapped.statusCode))
		}
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode == statusServiceUnavailable:
		return "upstream_unavailable"
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusUnprocessableEntity:
		return "validation"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
