package outcome

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagMessages(t *testing.T) {
	// The message text is an external contract; pin every tag.
	want := map[Tag]string{
		TagUserNotFound:          "User does not exist",
		TagEmailExists:           "Email already exists",
		TagIDExists:              "ID already exists",
		TagProductNotFound:       "Product does not exist",
		TagNameExists:            "Name already exists",
		TagProductPublished:      "Product status is published",
		TagProductDeprecated:     "Product status is deprecated",
		TagImmutablePublished:    "Cannot modify non-status attributes of a published product",
		TagImmutableDeprecated:   "Cannot modify non-status attributes of a deprecated product",
		TagPublishedToDraft:      "Cannot change status from published to draft",
		TagDeprecatedToDraft:     "Cannot change status from deprecated to draft",
		TagDeprecatedToPublished: "Cannot change status from deprecated to published",
		TagSubscriptionNotFound:  "Subscription does not exist",
	}
	require.Len(t, AllTags, len(want))
	for _, tag := range AllTags {
		assert.Equal(t, want[tag], tag.String())
	}
}

func TestOkAndFail(t *testing.T) {
	ok := Ok(42)
	require.True(t, ok.OK())
	assert.Equal(t, 42, ok.Value())

	fail := Fail[int](TagUserNotFound)
	require.False(t, fail.OK())
	assert.Equal(t, TagUserNotFound, fail.FailureTag())
}

func TestMapPreservesFailure(t *testing.T) {
	double := func(n int) int { return n * 2 }

	assert.Equal(t, 4, Map(Ok(2), double).Value())

	mapped := Map(Fail[int](TagNameExists), double)
	require.False(t, mapped.OK())
	assert.Equal(t, TagNameExists, mapped.FailureTag())
}

func TestThenShortCircuits(t *testing.T) {
	calls := 0
	step := func(n int) Result[string] {
		calls++
		return Ok("ran")
	}

	res := Then(Fail[int](TagProductNotFound), step)
	require.False(t, res.OK())
	assert.Equal(t, TagProductNotFound, res.FailureTag())
	assert.Zero(t, calls, "continuation must not run after a failure")

	res = Then(Ok(1), step)
	require.True(t, res.OK())
	assert.Equal(t, 1, calls)
}

func TestThenEShortCircuits(t *testing.T) {
	boom := errors.New("db down")
	calls := 0
	step := func(n int) (Result[string], error) {
		calls++
		return Ok("ran"), nil
	}

	t.Run("fault stops the chain", func(t *testing.T) {
		_, err := ThenE(Ok(1), boom, step)
		require.ErrorIs(t, err, boom)
		assert.Zero(t, calls)
	})

	t.Run("failure stops the chain", func(t *testing.T) {
		res, err := ThenE(Fail[int](TagEmailExists), nil, step)
		require.NoError(t, err)
		require.False(t, res.OK())
		assert.Equal(t, TagEmailExists, res.FailureTag())
		assert.Zero(t, calls)
	})

	t.Run("success continues", func(t *testing.T) {
		res, err := ThenE(Ok(1), nil, step)
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, 1, calls)
	})
}

func TestDiscard(t *testing.T) {
	assert.True(t, Discard(Ok("payload")).OK())

	dropped := Discard(Fail[string](TagIDExists))
	require.False(t, dropped.OK())
	assert.Equal(t, TagIDExists, dropped.FailureTag())
}
