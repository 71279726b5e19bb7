package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learncraft/internal/model"
)

func TestMergeSlots(t *testing.T) {
	tests := []struct {
		name  string
		input []model.TimeSlot
		want  []model.TimeSlot
	}{
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name: "single slot untouched",
			input: []model.TimeSlot{
				{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy, Color: "blue"},
			},
			want: []model.TimeSlot{
				{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy, Color: "blue"},
			},
		},
		{
			name: "consecutive equal slots collapse",
			input: []model.TimeSlot{
				{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy, Color: "blue"},
				{Time: "10:00 - 11:00", Activity: "Math", Type: model.SlotStudy, Color: "blue"},
				{Time: "11:00 - 11:15", Activity: "Break", Type: model.SlotBreak},
			},
			want: []model.TimeSlot{
				{Time: "09:00 - 11:00", Activity: "Math", Type: model.SlotStudy, Color: "blue"},
				{Time: "11:00 - 11:15", Activity: "Break", Type: model.SlotBreak},
			},
		},
		{
			name: "run of three collapses to one",
			input: []model.TimeSlot{
				{Time: "09:00 - 09:30", Activity: "Physics", Type: model.SlotStudy},
				{Time: "09:30 - 10:00", Activity: "Physics", Type: model.SlotStudy},
				{Time: "10:00 - 10:30", Activity: "Physics", Type: model.SlotStudy},
			},
			want: []model.TimeSlot{
				{Time: "09:00 - 10:30", Activity: "Physics", Type: model.SlotStudy},
			},
		},
		{
			name: "same label different type stays split",
			input: []model.TimeSlot{
				{Time: "12:00 - 13:00", Activity: "Lunch", Type: model.SlotRoutine},
				{Time: "13:00 - 13:15", Activity: "Lunch", Type: model.SlotBreak},
			},
			want: []model.TimeSlot{
				{Time: "12:00 - 13:00", Activity: "Lunch", Type: model.SlotRoutine},
				{Time: "13:00 - 13:15", Activity: "Lunch", Type: model.SlotBreak},
			},
		},
		{
			name: "non-adjacent duplicates stay split",
			input: []model.TimeSlot{
				{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy},
				{Time: "10:00 - 10:15", Activity: "Break", Type: model.SlotBreak},
				{Time: "10:15 - 11:00", Activity: "Math", Type: model.SlotStudy},
			},
			want: []model.TimeSlot{
				{Time: "09:00 - 10:00", Activity: "Math", Type: model.SlotStudy},
				{Time: "10:00 - 10:15", Activity: "Break", Type: model.SlotBreak},
				{Time: "10:15 - 11:00", Activity: "Math", Type: model.SlotStudy},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeSlots(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeSlotsIdempotent(t *testing.T) {
	input := []model.TimeSlot{
		{Time: "09:00 - 09:30", Activity: "Math", Type: model.SlotStudy},
		{Time: "09:30 - 10:00", Activity: "Math", Type: model.SlotStudy},
		{Time: "10:00 - 10:15", Activity: "Break", Type: model.SlotBreak},
		{Time: "10:15 - 11:00", Activity: "History", Type: model.SlotStudy},
		{Time: "11:00 - 12:00", Activity: "History", Type: model.SlotStudy},
	}

	once := MergeSlots(input)
	twice := MergeSlots(once)
	assert.Equal(t, once, twice)

	for i := 1; i < len(once); i++ {
		prev, cur := once[i-1], once[i]
		assert.False(t, prev.Activity == cur.Activity && prev.Type == cur.Type,
			"adjacent slots %d and %d still mergeable", i-1, i)
	}
}

func TestMergeSlotsKeepsDuration(t *testing.T) {
	input := []model.TimeSlot{
		{Time: "06:00 - 07:00", Activity: "Gym", Type: model.SlotRoutine},
		{Time: "07:00 - 08:30", Activity: "Chemistry", Type: model.SlotStudy},
		{Time: "08:30 - 10:00", Activity: "Chemistry", Type: model.SlotStudy},
	}

	got := MergeSlots(input)

	start, _ := SplitTimeRange(got[0].Time)
	_, end := SplitTimeRange(got[len(got)-1].Time)
	assert.Equal(t, "06:00", start)
	assert.Equal(t, "10:00", end)
}

func TestSplitTimeRange(t *testing.T) {
	tests := []struct {
		input string
		start string
		end   string
	}{
		{"09:00 - 10:00", "09:00", "10:00"},
		{"09:00-10:00", "09:00", "10:00"},
		{"09:00", "09:00", ""},
	}

	for _, tt := range tests {
		start, end := SplitTimeRange(tt.input)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
