package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name   string
		err    *Error
		typ    ErrorType
		status int
		cause  error
	}{
		{"validation", ValidationError("bad year"), TypeValidation, http.StatusBadRequest, nil},
		{"not found", NotFoundError("unknown ranking"), TypeNotFound, http.StatusNotFound, nil},
		{"internal", InternalError("failed", cause), TypeInternal, http.StatusInternalServerError, cause},
		{"external", ExternalError("store down", cause), TypeExternal, http.StatusServiceUnavailable, cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.cause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.typ))
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "validation: bad year", ValidationError("bad year").Error())
	assert.Equal(t, "internal: failed: boom", InternalError("failed", errors.New("boom")).Error())
}

func TestUnknownTypeIsInternal(t *testing.T) {
	err := &Error{Type: "teapot", Message: "x"}
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestWithField(t *testing.T) {
	err := ValidationError("bad month").WithField("month", 13).WithField("year", 2024)

	assert.Equal(t, map[string]any{"month": 13, "year": 2024}, err.Context)
}

func TestWithField_NilMap(t *testing.T) {
	err := &Error{Type: TypeNotFound, Message: "x"}
	err.WithField("item_id", 7)

	assert.Equal(t, 7, err.Context["item_id"])
}

func TestToResponse(t *testing.T) {
	resp := NotFoundError("unknown ranking").WithField("name", "best").ToResponse()

	assert.Equal(t, "unknown ranking", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "best", resp.Context["name"])
}

func TestErrorsIsThroughCause(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := ExternalError("store down", fmt.Errorf("wrapped: %w", sentinel))

	assert.ErrorIs(t, err, sentinel)
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("structured passes through", func(t *testing.T) {
		orig := ValidationError("bad")
		assert.Same(t, orig, AsStructuredError(orig))
	})

	t.Run("wrapped structured is unwrapped", func(t *testing.T) {
		orig := NotFoundError("gone")
		got := AsStructuredError(fmt.Errorf("handler: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("boom")
		got := AsStructuredError(cause)
		require.NotNil(t, got)
		assert.Equal(t, TypeInternal, got.Type)
		assert.Equal(t, "internal server error", got.Message)
		assert.Equal(t, cause, got.Cause)
	})
}
