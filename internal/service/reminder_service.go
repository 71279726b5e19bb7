package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"learncraft/internal/model"
)

// ScheduleReader loads previously saved schedules.
type ScheduleReader interface {
	FindByUserAndDate(ctx context.Context, userID uint, date time.Time) ([]model.TimeSlot, error)
}

// ReminderService builds human-readable summaries of saved schedules for
// daily notifications.
type ReminderService struct {
	schedules ScheduleReader
}

func NewReminderService(schedules ScheduleReader) *ReminderService {
	return &ReminderService{schedules: schedules}
}

// DailySummary renders the schedule saved for today as an HTML message.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	slots, err := s.schedules.FindByUserAndDate(ctx, user.ID, now)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📅 <b>Today's study plan</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

	if len(slots) == 0 {
		builder.WriteString("— nothing planned for today\n")
		return strings.TrimSpace(builder.String()), nil
	}

	for _, slot := range slots {
		builder.WriteString(formatSlotLine(slot))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatSlotLine(slot model.TimeSlot) string {
	icon := slotIcon(slot.Type)
	return fmt.Sprintf("%s <b>%s</b> — %s\n", icon, slot.Time, html.EscapeString(strings.TrimSpace(slot.Activity)))
}

func slotIcon(t model.SlotType) string {
	switch t {
	case model.SlotStudy:
		return "📘"
	case model.SlotBreak:
		return "☕"
	default:
		return "🔁"
	}
}
