package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not found", err: ErrNotFound("lecturer"), want: ErrCodeNotFound},
		{name: "invalid input", err: ErrInvalidInput("bad id"), want: ErrCodeInvalidInput},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound("lecturer")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrNotFound("lecturer"))))
	assert.False(t, IsNotFound(errors.New("lecturer not found")))
	assert.False(t, IsNotFound(nil))
}

func TestWrapStorageError(t *testing.T) {
	cause := errors.New("connection refused")

	err := WrapStorageError(cause, "redis", "save")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeStorageUnavailable, ErrorCode(err))
	assert.Contains(t, err.Error(), "redis save failed")
	assert.NoError(t, WrapStorageError(nil, "redis", "save"))
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.NotEqual(t, a, b)
	assert.True(t, a.IsUUID())
	assert.False(t, a.IsEmpty())
	assert.True(t, ID("").IsEmpty())
	assert.False(t, ID("lec-1").IsUUID())
}
