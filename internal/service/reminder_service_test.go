package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"learncraft/internal/model"
)

type fakeScheduleReader struct {
	slots []model.TimeSlot
	err   error
}

func (f *fakeScheduleReader) FindByUserAndDate(_ context.Context, _ uint, _ time.Time) ([]model.TimeSlot, error) {
	return f.slots, f.err
}

func TestDailySummary(t *testing.T) {
	reader := &fakeScheduleReader{slots: []model.TimeSlot{
		{Time: "07:00 - 08:00", Activity: "Gym", Type: model.SlotRoutine},
		{Time: "09:00 - 11:00", Activity: "Math & Logic", Type: model.SlotStudy, Color: "blue"},
		{Time: "11:00 - 11:15", Activity: "Break", Type: model.SlotBreak},
	}}
	svc := NewReminderService(reader)

	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	text, err := svc.DailySummary(context.Background(), model.User{ID: 1}, now)
	require.NoError(t, err)

	assert.Contains(t, text, "Today's study plan")
	assert.Contains(t, text, "09:00 - 11:00")
	// HTML-sensitive characters in activity labels are escaped
	assert.Contains(t, text, "Math &amp; Logic")
	assert.NotContains(t, text, "Math & Logic")
}

func TestDailySummaryEmptyDay(t *testing.T) {
	svc := NewReminderService(&fakeScheduleReader{})

	text, err := svc.DailySummary(context.Background(), model.User{ID: 1}, time.Now())
	require.NoError(t, err)
	assert.Contains(t, text, "nothing planned")
}

func TestDailySummaryPropagatesNotFound(t *testing.T) {
	svc := NewReminderService(&fakeScheduleReader{err: gorm.ErrRecordNotFound})

	_, err := svc.DailySummary(context.Background(), model.User{ID: 1}, time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
