package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"subhub/pkg/outcome"
)

// TestStatusForTagCoversEveryTag walks the closed tag set: every tag must
// map without panicking, and only the not-exist tags map to 404.
func TestStatusForTagCoversEveryTag(t *testing.T) {
	notFound := map[outcome.Tag]bool{
		outcome.TagUserNotFound:         true,
		outcome.TagProductNotFound:      true,
		outcome.TagSubscriptionNotFound: true,
	}

	for _, tag := range outcome.AllTags {
		status := StatusForTag(tag)
		if notFound[tag] {
			if status != http.StatusNotFound {
				t.Fatalf("%v: expected 404, got %d", tag, status)
			}
			continue
		}
		if status != http.StatusConflict {
			t.Fatalf("%v: expected 409, got %d", tag, status)
		}
	}
}

func TestStatusForTagPanicsOnUnknownTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unmapped tag")
		}
	}()
	StatusForTag(outcome.Tag(0))
}

func TestFailureUsesCanonicalMessageWhenDetailEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	Failure(rec, outcome.TagPublishedToDraft, "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Detail != "Cannot change status from published to draft" {
		t.Fatalf("unexpected detail: %q", body.Detail)
	}
}

func TestFailurePrefersDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Failure(rec, outcome.TagUserNotFound, "User with ID 123 does not exist.")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Detail != "User with ID 123 does not exist." {
		t.Fatalf("unexpected detail: %q", body.Detail)
	}
}

func TestFaultHidesTheError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	logger := slog.New(slog.DiscardHandler)

	Fault(rec, req, logger, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Detail != "internal server error" {
		t.Fatalf("fault response must not leak the error, got %q", body.Detail)
	}
}

func TestJSONOmitsBodyForNilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}
