package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learncraft/internal/model"
)

func TestSessionToggleSubject(t *testing.T) {
	s := NewSession(1)
	assert.Equal(t, StateIdle, s.State())

	selected := s.ToggleSubject(7)
	assert.True(t, selected)
	assert.Equal(t, StateConfiguring, s.State())
	assert.Equal(t, []uint{7}, s.SelectedSubjects())
	assert.Equal(t, model.PriorityDefault, s.Priorities()[7])

	selected = s.ToggleSubject(7)
	assert.False(t, selected)
	assert.Empty(t, s.SelectedSubjects())

	// deselecting purges the priority entry, it is not zeroed
	_, ok := s.Priorities()[7]
	assert.False(t, ok)
}

func TestSessionSelectionOrder(t *testing.T) {
	s := NewSession(1)
	s.ToggleSubject(3)
	s.ToggleSubject(1)
	s.ToggleSubject(2)
	assert.Equal(t, []uint{3, 1, 2}, s.SelectedSubjects())

	s.ToggleSubject(1)
	assert.Equal(t, []uint{3, 2}, s.SelectedSubjects())
}

func TestSessionSetPriority(t *testing.T) {
	s := NewSession(1)
	s.ToggleSubject(7)

	require.NoError(t, s.SetPriority(7, 5))
	assert.Equal(t, 5, s.Priorities()[7])

	assert.ErrorIs(t, s.SetPriority(7, 0), ErrInvalidPriority)
	assert.ErrorIs(t, s.SetPriority(7, 6), ErrInvalidPriority)
	assert.ErrorIs(t, s.SetPriority(99, 3), ErrSubjectNotSelected)
}

func TestSessionGenerationLifecycle(t *testing.T) {
	s := NewSession(1)

	assert.ErrorIs(t, s.BeginGeneration(), ErrNoSubjectsSelected)

	s.ToggleSubject(7)
	require.NoError(t, s.BeginGeneration())
	assert.Equal(t, StateGenerating, s.State())

	assert.ErrorIs(t, s.BeginGeneration(), ErrOperationInFlight)
	assert.ErrorIs(t, s.BeginSave(), ErrOperationInFlight)

	slots := []model.TimeSlot{{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy}}
	s.CompleteGeneration(slots)
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, slots, s.Schedule())
	assert.True(t, s.CanSave())
}

func TestSessionFailedGenerationClearsSchedule(t *testing.T) {
	s := NewSession(1)
	s.ToggleSubject(7)

	require.NoError(t, s.BeginGeneration())
	s.CompleteGeneration([]model.TimeSlot{{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy}})
	require.True(t, s.CanSave())

	// a retry clears the working schedule up front and a failure does not
	// restore it
	require.NoError(t, s.BeginGeneration())
	s.FailGeneration()

	assert.Equal(t, StateConfiguring, s.State())
	assert.Empty(t, s.Schedule())
	assert.False(t, s.CanSave())
}

func TestSessionToggleKeepsSchedule(t *testing.T) {
	s := NewSession(1)
	s.ToggleSubject(7)
	require.NoError(t, s.BeginGeneration())
	s.CompleteGeneration([]model.TimeSlot{{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy}})

	s.ToggleSubject(8)
	assert.Equal(t, StateReady, s.State())
	assert.Len(t, s.Schedule(), 1)
}

func TestSessionSaveLifecycle(t *testing.T) {
	s := NewSession(1)
	s.ToggleSubject(7)

	assert.ErrorIs(t, s.BeginSave(), ErrScheduleNotReady)

	require.NoError(t, s.BeginGeneration())
	s.CompleteGeneration([]model.TimeSlot{{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy}})

	require.NoError(t, s.BeginSave())
	assert.Equal(t, StateSaving, s.State())

	s.CompleteSave()
	assert.Equal(t, StateReady, s.State())
	assert.Len(t, s.Schedule(), 1)

	// a failed save also lands back in Ready so the user can retry
	require.NoError(t, s.BeginSave())
	s.FailSave()
	assert.Equal(t, StateReady, s.State())
	assert.True(t, s.CanSave())
}

func TestSessionCanGenerate(t *testing.T) {
	s := NewSession(1)
	assert.False(t, s.CanGenerate())

	s.ToggleSubject(7)
	assert.True(t, s.CanGenerate())

	require.NoError(t, s.BeginGeneration())
	assert.False(t, s.CanGenerate())

	s.CompleteGeneration([]model.TimeSlot{{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy}})
	assert.True(t, s.CanGenerate())
}
