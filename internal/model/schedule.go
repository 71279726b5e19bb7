package model

import "time"

// SlotType categorizes a schedule slot.
type SlotType string

const (
	SlotStudy   SlotType = "study"
	SlotRoutine SlotType = "routine"
	SlotBreak   SlotType = "break"
)

// TimeSlot is one contiguous block of a generated schedule, as produced by
// the generator: a "HH:MM - HH:MM" range, an activity label, a category and
// an optional color tag (used only for study slots).
type TimeSlot struct {
	Time     string   `json:"time"`
	Activity string   `json:"activity"`
	Type     SlotType `json:"type"`
	Color    string   `json:"color,omitempty"`
}

// Schedule is a saved daily schedule for a user.
type Schedule struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"index"`
	Date      time.Time      `gorm:"index"`
	Slots     []ScheduleSlot `gorm:"foreignKey:ScheduleID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleSlot is a persisted TimeSlot, ordered by Position.
type ScheduleSlot struct {
	ID         uint `gorm:"primaryKey"`
	ScheduleID uint `gorm:"index"`
	Position   int
	Time       string
	Activity   string
	Type       SlotType
	Color      string
}

// TimeSlot converts the persisted row back to its transient form.
func (s ScheduleSlot) TimeSlot() TimeSlot {
	return TimeSlot{Time: s.Time, Activity: s.Activity, Type: s.Type, Color: s.Color}
}
