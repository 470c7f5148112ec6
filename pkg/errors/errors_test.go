package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("socket closed")
	err := Wrap(CodeNetwork, cause, "fetching orders")

	assert.Equal(t, CodeNetwork, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "NETWORK_ERROR")
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "order missing")
	wrapped := fmt.Errorf("handling request: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NO_SUCH_CODE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestIsCancelled(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCancelled(New(CodeCancelled, "superseded")))
	assert.True(t, IsCancelled(fmt.Errorf("outer: %w", New(CodeCancelled, "superseded"))))
	assert.False(t, IsCancelled(New(CodeNetwork, "down")))
	assert.False(t, IsCancelled(nil))
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad payload").WithDetails(map[string]string{"field": "required"})
	assert.Equal(t, map[string]string{"field": "required"}, err.Details())
}
