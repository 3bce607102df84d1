package handler

// RESPONSE HELPERS:
// Every success body is a Response ({"message": ..., "data": ...}, either
// field omitted when empty) and every error body an ErrorResponse:
//
//	{"error": "not_found", "message": "post not found with id 12"}
//
// TWO-TIER ERROR POLICY:
// *apperror.AppError values are anticipated failures and go to the client
// with their own message. Everything else (store errors, bad JSON, panics)
// is logged with the request id and answered with 400 and one generic
// message, so internal detail never leaves the server.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/community-board/internal/apperror"
)

// maxBodyBytes caps request bodies; posts are the largest payload.
const maxBodyBytes = 1 << 20

type Response struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent; all we can do is log
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// decodeJSON reads a JSON body into dst. A malformed body is an
// unclassified error and ends up as the generic 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// pathID parses a positive integer URL parameter. Anything else names a
// resource that cannot exist and is reported as not found.
func pathID(r *http.Request, param, resource string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound(resource, raw)
	}
	return id, nil
}

// Errors maps errors to HTTP responses.
//
// STATUS MAPPING:
//
//	ErrAuthentication → 401
//	ErrForbidden      → 404 (a non-owner sees the same status as for a missing resource)
//	ErrConflict       → 409
//	ErrNotFound       → 404
//	ErrValidation     → per route: 412 by default, 404 on comment routes
//	anything else     → 400 with apperror.GenericMessage
type Errors struct {
	logger           *slog.Logger
	validationStatus int
}

func NewErrors(logger *slog.Logger) *Errors {
	return &Errors{logger: logger, validationStatus: http.StatusPreconditionFailed}
}

// WithValidationStatus returns a copy that answers validation failures
// with status instead of 412.
func (e *Errors) WithValidationStatus(status int) *Errors {
	c := *e
	c.validationStatus = status
	return &c
}

// Write sends the response for err. Its signature matches
// auth.ErrorResponder and the panic-recovery responder.
func (e *Errors) Write(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if status, kind, ok := e.classify(appErr); ok {
			writeJSON(w, status, ErrorResponse{Error: kind, Message: appErr.Message})
			return
		}
	}

	// NEVER expose internal error details to the client.
	e.logger.Error("request failed",
		slog.String("requestID", chimiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: apperror.GenericMessage,
	})
}

func (e *Errors) classify(appErr *apperror.AppError) (int, string, bool) {
	switch {
	case errors.Is(appErr, apperror.ErrValidation):
		return e.validationStatus, "validation_error", true
	case errors.Is(appErr, apperror.ErrAuthentication):
		return http.StatusUnauthorized, "unauthorized", true
	case errors.Is(appErr, apperror.ErrForbidden):
		return http.StatusNotFound, "forbidden", true
	case errors.Is(appErr, apperror.ErrConflict):
		return http.StatusConflict, "conflict", true
	case errors.Is(appErr, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found", true
	}
	return 0, "", false
}
