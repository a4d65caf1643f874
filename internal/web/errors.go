package web

// errors.go turns failures into responses. The technical error is logged
// with the request id; the client sees inventory.MapError's message, action
// and support code, as JSON for API calls and an HTML page otherwise.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/logging"
	"github.com/JonMunkholm/bookinv/internal/spreadsheet"
	"github.com/JonMunkholm/bookinv/internal/web/templates"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var (
	errInvalidID    = errors.New("invalid id")
	errInvalidBody  = errors.New("invalid request body")
	errNoFile       = errors.New("no file provided")
	errRateLimited  = inventory.MapError(errors.New("rate limit exceeded"))
	errShuttingDown = errors.New("server is shutting down")
)

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrUnknownColumn),
		errors.Is(err, inventory.ErrBlankRecord),
		errors.Is(err, errInvalidID),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errNoFile),
		errors.Is(err, spreadsheet.ErrUnsupportedType),
		errors.Is(err, spreadsheet.ErrEmptyFile),
		errors.Is(err, spreadsheet.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, spreadsheet.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrTooManyImports):
		return http.StatusTooManyRequests
	case errors.Is(err, inventory.ErrStoreUnavailable), errors.Is(err, errShuttingDown):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := inventory.MapError(err)

	logging.FromContext(r.Context()).Log(r.Context(), logging.LevelForStatus(status), "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if !wantsJSON(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
			slog.Error("render error page", "error", err)
		}
		return
	}

	resp := ErrorResponse{Error: msg.Message, Message: msg.Message, Action: msg.Action, Code: msg.Code}
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSONStatus(w, status, resp)
}

// respondErrorJSON writes msg without logging; used by middleware.
func respondErrorJSON(w http.ResponseWriter, msg inventory.UserMessage, status int) {
	writeJSONStatus(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// wantsJSON reports whether the client should get a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
