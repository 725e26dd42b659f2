package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/nanotile/ai-document-writer/internal/draftstore"
	"github.com/nanotile/ai-document-writer/internal/governor"
	"github.com/nanotile/ai-document-writer/internal/log"
	"github.com/nanotile/ai-document-writer/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("encoding response", slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps a governance or store error onto the HTTP response.
// Internal details never reach the client: a rejected path reads exactly
// like a missing draft, and downstream failures get a generic message with
// the real error kept in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var limited *governor.RateLimitedError
	var tooLong *validate.TooLongError

	switch {
	case errors.Is(err, governor.ErrSessionExpired):
		writeMessage(w, http.StatusUnauthorized, "authentication required")

	case errors.As(err, &limited):
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":               "too many requests",
			"retry_after_seconds": seconds,
		})

	case errors.As(err, &tooLong):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": tooLong.Error(),
			"field": tooLong.Field,
			"limit": tooLong.Limit,
		})

	case errors.Is(err, governor.ErrPathRejected), errors.Is(err, draftstore.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "draft not found")

	default:
		log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
