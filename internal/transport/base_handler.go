package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// AffectedResponse is returned by update and delete endpoints.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteNoContent answers a successful relation mutation.
func (h *BaseHandler) WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error envelope without request logging.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{
		"status": status,
		"error":  message,
	})
}

// WriteAppError logs err together with the request it failed and writes the
// {status, error} envelope. Errors that are not AppErrors are treated as internal.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("There was a problem processing the request", err)
	}

	h.LogRequestError(r, appErr)
	h.WriteJSON(w, appErr.StatusCode, appErr)
}

// LogRequestError records a failed request with the metadata operators use to
// trace it back to a client.
func (h *BaseHandler) LogRequestError(r *http.Request, err error) {
	level := slog.LevelError
	status := http.StatusInternalServerError
	if appErr, ok := internal.IsAppError(err); ok {
		status = appErr.StatusCode
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
	}

	h.Logger.Log(r.Context(), level, "request failed",
		"time", time.Now().Format(time.RFC3339),
		"request_method", r.Method,
		"endpoint", r.URL.String(),
		"client", r.RemoteAddr,
		"agent", r.UserAgent(),
		"trace_id", logger.TraceID(r.Context()),
		"user_id", internal.UserIDFromContext(r.Context()),
		"status", status,
		"error", err,
	)
}

// DecodeJSON reads the request body into v. Bodies over the BodyLimit cap
// answer 413.
func (h *BaseHandler) DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return internal.NewValidationError("request body is required", internal.ErrCodeInvalidBody)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return internal.NewBodyTooLargeError(tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("request body is required", internal.ErrCodeInvalidBody)
		}
		return internal.NewValidationError(fmt.Sprintf("invalid request body: %v", err), internal.ErrCodeInvalidBody)
	}
	return nil
}

// ParseID reads a positive integer path parameter.
func (h *BaseHandler) ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError(fmt.Sprintf("%s must be a positive integer, got %q", name, raw), internal.ErrCodeInvalidID)
	}
	return id, nil
}

// ParseIDs reads several path parameters in order.
func (h *BaseHandler) ParseIDs(r *http.Request, names ...string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := h.ParseID(r, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HandleRelation runs a relation mutation and answers 204 when it succeeds.
func (h *BaseHandler) HandleRelation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) error) {
	if err := fn(r.Context()); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteNoContent(w)
}

// ParseIDList reads a repeated query parameter such as ?roleid=1&roleid=2.
// At least one id is required.
func (h *BaseHandler) ParseIDList(r *http.Request, name string) ([]int64, error) {
	values := r.URL.Query()[name]
	if len(values) == 0 {
		return nil, internal.NewValidationError(fmt.Sprintf("query parameter %s is required", name), internal.ErrCodeInvalidID)
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, internal.NewValidationError(fmt.Sprintf("%s must be a positive integer, got %q", name, v), internal.ErrCodeInvalidID)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
