package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	t.Parallel()

	refType, err := ParseReferenceType(" shipment ")
	require.NoError(t, err)
	assert.Equal(t, ReferenceTypeShipment, refType)

	taskType, err := ParseTaskType("collect_payment")
	require.NoError(t, err)
	assert.Equal(t, TaskTypeCollectPayment, taskType)

	status, err := ParseTaskStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusCompleted, status)

	priority, err := ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, priority)
}

func TestParseEnums_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseReferenceType("warehouse")
	assert.ErrorIs(t, err, ErrInvalidReferenceType)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseTaskType("")
	assert.ErrorIs(t, err, ErrInvalidTaskType)

	_, err = ParseTaskStatus("DONE")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	_, err = ParsePriority("URGENT")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	t.Parallel()
	assert.False(t, TaskStatusAssigned.IsTerminal())
	assert.False(t, TaskStatusStarted.IsTerminal())
	assert.True(t, TaskStatusCompleted.IsTerminal())
	assert.True(t, TaskStatusCancelled.IsTerminal())
}
