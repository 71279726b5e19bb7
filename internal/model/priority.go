package model

import "time"

// Priority weights for subject scheduling, 1 (low) to 5 (high).
const (
	PriorityMin     = 1
	PriorityMax     = 5
	PriorityDefault = 3 // assigned when a subject is selected without an explicit choice
)

// Priority stores the weight a user assigned to one of their subjects.
// A row exists only while the subject is part of the current selection.
type Priority struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index:idx_user_subject_priority,unique"`
	SubjectID uint `gorm:"index:idx_user_subject_priority,unique"`
	Level     int  `gorm:"default:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriorityMap maps subject IDs to their weights.
type PriorityMap map[uint]int
