package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"learncraft/internal/model"
)

// ScheduleRepository persists generated schedules.
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Save stores a schedule for the given date, replacing any earlier one saved
// that day so re-generating and saving again does not pile up duplicates.
func (r *ScheduleRepository) Save(ctx context.Context, userID uint, date time.Time, slots []model.TimeSlot) error {
	day := startOfDay(date)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.Schedule
		if err := tx.Where("user_id = ? AND date = ?", userID, day).Find(&existing).Error; err != nil {
			return fmt.Errorf("find schedule: %w", err)
		}
		for _, old := range existing {
			if err := tx.Where("schedule_id = ?", old.ID).Delete(&model.ScheduleSlot{}).Error; err != nil {
				return fmt.Errorf("delete old slots: %w", err)
			}
			if err := tx.Delete(&old).Error; err != nil {
				return fmt.Errorf("delete old schedule: %w", err)
			}
		}

		schedule := model.Schedule{UserID: userID, Date: day}
		for i, slot := range slots {
			schedule.Slots = append(schedule.Slots, model.ScheduleSlot{
				Position: i,
				Time:     slot.Time,
				Activity: slot.Activity,
				Type:     slot.Type,
				Color:    slot.Color,
			})
		}
		if err := tx.Create(&schedule).Error; err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return nil
	})
}

// FindByUserAndDate returns the slots saved for the given day, in order.
func (r *ScheduleRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) ([]model.TimeSlot, error) {
	day := startOfDay(date)

	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ? AND date = ?", userID, day).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}

	slots := make([]model.TimeSlot, 0, len(schedule.Slots))
	for _, s := range schedule.Slots {
		slots = append(slots, s.TimeSlot())
	}
	return slots, nil
}

// startOfDay buckets dates at midnight in the date's own location, so a
// schedule saved just after local midnight still belongs to that local day.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
