package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"learncraft/internal/model"
)

func TestValidateClock(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"00:00", false},
		{"07:30", false},
		{"23:59", false},
		{"24:00", true},
		{"12:60", true},
		{"-1:00", true},
		{"7:3x", true},
		{"0730", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRoutineValidation(t *testing.T) {
	svc := NewRoutineService(nil)
	user := &model.User{ID: 1}

	tests := []struct {
		name  string
		input RoutineInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing name",
			input: RoutineInput{StartTime: "07:00", EndTime: "08:00"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRoutineFieldsMissing)
			},
		},
		{
			name:  "missing start",
			input: RoutineInput{Name: "Gym", EndTime: "08:00"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRoutineFieldsMissing)
			},
		},
		{
			name:  "bad start time",
			input: RoutineInput{Name: "Gym", StartTime: "25:00", EndTime: "08:00"},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrRoutineFieldsMissing)
			},
		},
		{
			name:  "bad end time",
			input: RoutineInput{Name: "Gym", StartTime: "07:00", EndTime: "8 pm"},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRoutine(context.Background(), user, tt.input)
			tt.check(t, err)
		})
	}
}
