package internal_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/internal"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	t.Run("formats code and message", func(t *testing.T) {
		t.Parallel()

		st := internal.NotFoundError("no component %q", "a.html")
		assert.Equal(t, `NOT_FOUND: no component "a.html"`, st.Error())
		assert.Equal(t, internal.CodeNotFound, st.Code())
		assert.Equal(t, `no component "a.html"`, st.Message())
	})

	t.Run("ok is never an error", func(t *testing.T) {
		t.Parallel()

		st := internal.NewStatus(internal.CodeOK, "fine")
		assert.Equal(t, internal.CodeUnknown, st.Code())
	})

	t.Run("wrap keeps the cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk on fire")
		st := internal.InternalError("stat failed").Wrap(cause)
		assert.ErrorIs(t, st, cause)
	})

	t.Run("status of", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, internal.StatusOf(nil))
		assert.Equal(t, internal.CodeOK, internal.CodeOf(nil))

		plain := internal.StatusOf(errors.New("oops"))
		assert.Equal(t, internal.CodeInternal, plain.Code())
		assert.Equal(t, "oops", plain.Message())

		wrapped := fmt.Errorf("loading: %w", internal.DataLossError("conflict"))
		assert.Equal(t, internal.CodeDataLoss, internal.CodeOf(wrapped))
		assert.True(t, internal.IsCode(wrapped, internal.CodeDataLoss))
		assert.False(t, internal.IsCode(nil, internal.CodeOK))
	})
}

func TestParseCode(t *testing.T) {
	t.Parallel()

	for c := internal.CodeOK; c <= internal.CodeUnauthenticated; c++ {
		got, ok := internal.ParseCode(c.String())
		require.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}

	got, ok := internal.ParseCode(" not_found ")
	require.True(t, ok)
	assert.Equal(t, internal.CodeNotFound, got)

	_, ok = internal.ParseCode("TEAPOT")
	assert.False(t, ok)
	assert.Equal(t, "CODE(99)", internal.Code(99).String())
}

func TestCode_HTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 404, internal.CodeNotFound.HTTPStatus())
	assert.Equal(t, 400, internal.CodeInvalidArgument.HTTPStatus())
	assert.Equal(t, 412, internal.CodeFailedPrecondition.HTTPStatus())
	assert.Equal(t, 503, internal.CodeUnavailable.HTTPStatus())
	assert.Equal(t, 500, internal.CodeDataLoss.HTTPStatus())
	assert.Equal(t, 500, internal.CodeInternal.HTTPStatus())
}
