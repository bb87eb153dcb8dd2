package tableerrors

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapturesStack(t *testing.T) {
	err := New(ErrorTypeValidation, "bad separator")

	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack[0].Function, "TestNewCapturesStack")
	assert.Equal(t, "validation: bad separator", err.Error())
}

func TestWrapPreservesStackOfStructuredCause(t *testing.T) {
	inner := New(ErrorTypeFormat, "duplicate header")
	outer := Wrap(inner, ErrorTypeFile, "load failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeFile))
	assert.True(t, errors.Is(outer, ErrFormat), "cause category must stay reachable")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeFile, "unused"))
}

func TestWrapUnstructuredCause(t *testing.T) {
	err := Wrap(os.ErrNotExist, ErrorTypeFile, "open")

	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, IsFile(err))
	assert.False(t, IsFormat(err))
}

func TestColumnNotFoundDetails(t *testing.T) {
	err := ColumnNotFound("depth")

	v, ok := err.Detail("column")
	require.True(t, ok)
	assert.Equal(t, "depth", v)
	assert.True(t, IsColumnNotFound(err))
	assert.Equal(t, `column_not_found: column "depth" not found`, err.Error())
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorTypeCoercion, TypeOf(Newf(ErrorTypeCoercion, "cannot parse %q", "x")))
}
