package models

import (
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// Product is an immutable catalog entry. Updates replace the whole value;
// ValidateFieldChange governs which replacements are legal once the
// product has left draft.
//
// Invariants:
//   - ID and Name are unique across the product set (store-enforced)
//   - Name is non-empty
//   - MonthlyFeeCents is non-negative
//   - Status follows the draft → published → deprecated lifecycle
type Product struct {
	ID              domain.ProductID `json:"id"`
	Name            string           `json:"name"`
	MonthlyFeeCents int64            `json:"monthly_fee_cents"`
	Status          Status           `json:"status"`
}

// ValidateFieldChange enforces field immutability outside draft: once a
// product is published or deprecated, only Status may differ between the
// stored value and its replacement. Returns the applicable failure tag
// and false when the change is forbidden.
//
// Callers must check the status transition first (ValidateTransition);
// transition legality takes precedence over field immutability.
func ValidateFieldChange(before, after Product) (outcome.Tag, bool) {
	if before.Name == after.Name && before.MonthlyFeeCents == after.MonthlyFeeCents {
		return 0, true
	}
	switch before.Status {
	case StatusDraft:
		return 0, true
	case StatusPublished:
		return outcome.TagImmutablePublished, false
	case StatusDeprecated:
		return outcome.TagImmutableDeprecated, false
	}
	return 0, true
}
