// Package domain holds the typed identifiers shared across features.
// Wrapping uuid.UUID in distinct types keeps a UserID from ever being
// passed where a ProductID is expected.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	UserID         uuid.UUID
	ProductID      uuid.UUID
	SubscriptionID uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ProductID) String() string      { return uuid.UUID(id).String() }
func (id SubscriptionID) String() string { return uuid.UUID(id).String() }

// The ID types are defined types over uuid.UUID and do not inherit its
// methods, so each implements encoding.TextMarshaler/Unmarshaler to keep
// the canonical string form in JSON.

func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ProductID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id SubscriptionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ProductID) UnmarshalText(b []byte) error {
	parsed, err := ParseProductID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SubscriptionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSubscriptionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// parseID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("id must not be the nil UUID")
	}
	return id, nil
}

func ParseUserID(raw string) (UserID, error) {
	id, err := parseID(raw)
	return UserID(id), err
}

func ParseProductID(raw string) (ProductID, error) {
	id, err := parseID(raw)
	return ProductID(id), err
}

func ParseSubscriptionID(raw string) (SubscriptionID, error) {
	id, err := parseID(raw)
	return SubscriptionID(id), err
}
