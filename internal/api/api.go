// Package api holds the HTTP plumbing shared by every route package:
// JSON responses, error mapping, tenant resolution and request logging.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantHeader optionally overrides the default tenant for a request.
const TenantHeader = "x-tenant-id"

const maxBodyBytes = 1 << 20

// ─── Errors ──────────────────────────────────────────────────────────────────

// ErrNotFound is returned when a record is missing or belongs to another tenant.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write lost a race with another request.
var ErrConflict = errors.New("conflict")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError from a format string.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// WriteErr maps domain errors to HTTP status codes. Anything unrecognised is
// a 500 carrying the raw error message.
func WriteErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrConflict) {
		Error(w, err.Error(), http.StatusConflict)
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		Error(w, ve.Msg, http.StatusBadRequest)
		return
	}
	Error(w, err.Error(), http.StatusInternalServerError)
}

// ─── Responses ───────────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { JSON(w, http.StatusCreated, v) }

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, msg string, code int) {
	JSON(w, code, map[string]string{"error": msg})
}

// MethodNotAllowed writes a 405 advertising the allowed methods.
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// ─── Requests ────────────────────────────────────────────────────────────────

// Decode reads a single JSON value into v. Empty bodies, malformed JSON and
// trailing data are reported as validation errors.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return Invalid("request body is empty")
		}
		return Invalid("invalid JSON body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Invalid("request body must contain a single JSON value")
	}
	return nil
}

// Tenant resolves the tenant for r: the x-tenant-id header when present,
// otherwise fallback.
func Tenant(r *http.Request, fallback string) (string, error) {
	raw := strings.TrimSpace(r.Header.Get(TenantHeader))
	if raw == "" {
		return fallback, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", Invalid("%s must be a UUID", TenantHeader)
	}
	return id.String(), nil
}

// PathID validates that s is a UUID.
func PathID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", Invalid("invalid id %q", s)
	}
	return id.String(), nil
}

// PathParts splits r.URL.Path into its non-empty segments.
func PathParts(r *http.Request) []string {
	return strings.Split(strings.Trim(r.URL.Path, "/"), "/")
}

// ─── Middleware ──────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logged wraps next with a zap access log line per request.
func Logged(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
