package models

import "subhub/pkg/outcome"

// Status is the product lifecycle state.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPublished  Status = "published"
	StatusDeprecated Status = "deprecated"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusDeprecated:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// next. Allowed: same-state no-ops, draft → published, draft → deprecated,
// published → deprecated. Everything else is a forbidden rollback.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusDraft:
		return next == StatusPublished || next == StatusDeprecated
	case StatusPublished:
		return next == StatusDeprecated
	case StatusDeprecated:
		return false
	}
	return false
}

// ValidateTransition returns the failure tag for a forbidden transition
// and false, or (0, true) when the transition is allowed.
func ValidateTransition(from, to Status) (outcome.Tag, bool) {
	if from.CanTransitionTo(to) {
		return 0, true
	}
	switch {
	case from == StatusPublished && to == StatusDraft:
		return outcome.TagPublishedToDraft, false
	case from == StatusDeprecated && to == StatusDraft:
		return outcome.TagDeprecatedToDraft, false
	case from == StatusDeprecated && to == StatusPublished:
		return outcome.TagDeprecatedToPublished, false
	}
	// CanTransitionTo rejects exactly the three pairs above.
	return 0, true
}

// DeletionGuard reports whether a product in this status may be deleted.
// Only drafts are deletable; published and deprecated products are part
// of the public record.
func (s Status) DeletionGuard() (outcome.Tag, bool) {
	switch s {
	case StatusDraft:
		return 0, true
	case StatusPublished:
		return outcome.TagProductPublished, false
	case StatusDeprecated:
		return outcome.TagProductDeprecated, false
	}
	return 0, true
}
