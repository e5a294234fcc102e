// Package outcome models business results as explicit two-variant values
// instead of error control flow. A Result is either success carrying a
// payload or failure carrying a Tag from the closed enumeration below.
//
// Tags represent expected business outcomes. They are produced by stores
// and services, passed through unchanged, and translated exactly once at
// the HTTP boundary. Infrastructure faults (an unclassified database
// error, a broken connection) never become tags; they travel in the
// ordinary error return next to the Result and surface as a generic
// server failure.
package outcome

// Tag identifies one business-rule violation. The set is closed: every
// switch over Tag must cover all constants (enforced by the exhaustive
// linter) so that adding a tag breaks the build until the boundary maps it.
type Tag int

const (
	// User tags.
	TagUserNotFound Tag = iota + 1
	TagEmailExists
	TagIDExists

	// Product tags.
	TagProductNotFound
	TagNameExists
	TagProductPublished
	TagProductDeprecated
	TagImmutablePublished
	TagImmutableDeprecated
	TagPublishedToDraft
	TagDeprecatedToDraft
	TagDeprecatedToPublished

	// Subscription tags. TagIDExists, TagUserNotFound and
	// TagProductNotFound are shared with the entities above.
	TagSubscriptionNotFound
)

// AllTags lists every tag once, in declaration order. Boundary coverage
// tests iterate it.
var AllTags = []Tag{
	TagUserNotFound,
	TagEmailExists,
	TagIDExists,
	TagProductNotFound,
	TagNameExists,
	TagProductPublished,
	TagProductDeprecated,
	TagImmutablePublished,
	TagImmutableDeprecated,
	TagPublishedToDraft,
	TagDeprecatedToDraft,
	TagDeprecatedToPublished,
	TagSubscriptionNotFound,
}

// String returns the authoritative human-readable message for the tag.
// These strings are part of the external contract; do not reword them.
func (t Tag) String() string {
	switch t {
	case TagUserNotFound:
		return "User does not exist"
	case TagEmailExists:
		return "Email already exists"
	case TagIDExists:
		return "ID already exists"
	case TagProductNotFound:
		return "Product does not exist"
	case TagNameExists:
		return "Name already exists"
	case TagProductPublished:
		return "Product status is published"
	case TagProductDeprecated:
		return "Product status is deprecated"
	case TagImmutablePublished:
		return "Cannot modify non-status attributes of a published product"
	case TagImmutableDeprecated:
		return "Cannot modify non-status attributes of a deprecated product"
	case TagPublishedToDraft:
		return "Cannot change status from published to draft"
	case TagDeprecatedToDraft:
		return "Cannot change status from deprecated to draft"
	case TagDeprecatedToPublished:
		return "Cannot change status from deprecated to published"
	case TagSubscriptionNotFound:
		return "Subscription does not exist"
	}
	return "unknown failure"
}

// Unit is the payload of operations that succeed without producing a value.
type Unit struct{}

// Result is a two-variant value: success with a payload of type T, or
// failure with a Tag. The zero Result is a failure with an invalid tag;
// construct values with Ok and Fail.
type Result[T any] struct {
	value T
	tag   Tag
	ok    bool
}

// Ok returns a success Result carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail returns a failure Result carrying tag.
func Fail[T any](tag Tag) Result[T] {
	return Result[T]{tag: tag}
}

// OK reports whether the Result is the success variant.
func (r Result[T]) OK() bool { return r.ok }

// Value returns the success payload. It is only meaningful when OK.
func (r Result[T]) Value() T { return r.value }

// FailureTag returns the failure tag. It is only meaningful when !OK.
func (r Result[T]) FailureTag() Tag { return r.tag }

// Map applies f to the success payload, passing failures through unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.ok {
		return Fail[U](r.tag)
	}
	return Ok(f(r.value))
}

// Then chains a further step onto a success, short-circuiting on failure.
// The failure tag crosses unchanged; f never runs after a failure.
func Then[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if !r.ok {
		return Fail[U](r.tag)
	}
	return f(r.value)
}

// ThenE chains an I/O-bound step onto a (Result, error) pair. A non-nil
// err or a failure Result short-circuits: f never runs, no side effects
// from later steps occur.
func ThenE[T, U any](r Result[T], err error, f func(T) (Result[U], error)) (Result[U], error) {
	if err != nil {
		return Result[U]{}, err
	}
	if !r.ok {
		return Fail[U](r.tag), nil
	}
	return f(r.value)
}

// Discard drops the success payload, keeping the variant and tag.
func Discard[T any](r Result[T]) Result[Unit] {
	if !r.ok {
		return Fail[Unit](r.tag)
	}
	return Ok(Unit{})
}
