package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learncraft/internal/model"
)

// PriorityRepository stores per-subject priority weights.
type PriorityRepository struct {
	db *gorm.DB
}

func NewPriorityRepository(db *gorm.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

// Set creates or updates the weight for a subject.
func (r *PriorityRepository) Set(ctx context.Context, userID, subjectID uint, level int) error {
	var priority model.Priority
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND subject_id = ?", userID, subjectID).First(&priority).Error
	switch {
	case err == nil:
		if err := db.Model(&priority).Update("level", level).Error; err != nil {
			return fmt.Errorf("update priority: %w", err)
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		priority = model.Priority{UserID: userID, SubjectID: subjectID, Level: level}
		if err := db.Create(&priority).Error; err != nil {
			return fmt.Errorf("create priority: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find priority: %w", err)
	}
}

// MapByUser returns all stored weights keyed by subject ID.
func (r *PriorityRepository) MapByUser(ctx context.Context, userID uint) (model.PriorityMap, error) {
	var priorities []model.Priority
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&priorities).Error; err != nil {
		return nil, err
	}
	result := make(model.PriorityMap, len(priorities))
	for _, p := range priorities {
		result[p.SubjectID] = p.Level
	}
	return result, nil
}

// Delete removes the weight for a subject, e.g. when it leaves the selection.
func (r *PriorityRepository) Delete(ctx context.Context, userID, subjectID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Delete(&model.Priority{}).Error; err != nil {
		return fmt.Errorf("delete priority: %w", err)
	}
	return nil
}
