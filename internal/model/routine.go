package model

import "time"

// Routine is a fixed daily commitment the generator must schedule around.
// Start and end are wall-clock HH:MM strings, same day, no date component.
type Routine struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Name      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
