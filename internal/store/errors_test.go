package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrTaskNotFound", ErrTaskNotFound, true},
		{"wrapped ErrTaskNotFound", fmt.Errorf("get task 4: %w", ErrTaskNotFound), true},
		{"store error wrapping not found", NewStoreError("task", "get", "missing", ErrTaskNotFound), true},
		{"duplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("task", "save", "failed to write row", cause)

	assert.Equal(t, "save operation on task failed: failed to write row: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("task", "find_all", "query timed out", nil)
	assert.Equal(t, "find_all operation on task failed: query timed out", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
