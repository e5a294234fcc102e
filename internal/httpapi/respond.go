// Package httpapi is the boundary between terminal outcomes and HTTP.
// Domain failures are recovered here, exactly once: StatusForTag maps
// every failure tag to a status code, and the responders shape the JSON
// bodies. Nothing outside this package and the handlers may translate a
// tag.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"subhub/pkg/outcome"
)

// StatusForTag maps a failure tag to its HTTP status. The switch must
// stay exhaustive over outcome.Tag: a new tag without a case here is a
// lint failure, not a runtime fallback.
func StatusForTag(tag outcome.Tag) int {
	switch tag {
	case outcome.TagUserNotFound,
		outcome.TagProductNotFound,
		outcome.TagSubscriptionNotFound:
		return http.StatusNotFound
	case outcome.TagEmailExists,
		outcome.TagIDExists,
		outcome.TagNameExists,
		outcome.TagProductPublished,
		outcome.TagProductDeprecated,
		outcome.TagImmutablePublished,
		outcome.TagImmutableDeprecated,
		outcome.TagPublishedToDraft,
		outcome.TagDeprecatedToDraft,
		outcome.TagDeprecatedToPublished:
		return http.StatusConflict
	}
	panic(fmt.Sprintf("unmapped failure tag %d", tag))
}

// errorBody matches the {"detail": ...} error shape of the public API.
type errorBody struct {
	Detail string `json:"detail"`
}

// JSON writes a success payload.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// Failure writes a domain failure using the tag's mapped status. The
// detail message carries the human-readable context (usually naming the
// offending identifier); pass an empty detail to fall back to the tag's
// canonical message.
func Failure(w http.ResponseWriter, tag outcome.Tag, detail string) {
	if detail == "" {
		detail = tag.String()
	}
	JSON(w, StatusForTag(tag), errorBody{Detail: detail})
}

// BadRequest rejects malformed input before it reaches the core.
func BadRequest(w http.ResponseWriter, detail string) {
	JSON(w, http.StatusBadRequest, errorBody{Detail: detail})
}

// Fault reports an unclassified storage or infrastructure error. These
// are the only request-path events logged at error level; domain
// failures are expected outcomes and never land here.
func Fault(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if logger != nil {
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	JSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
}
