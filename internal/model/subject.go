package model

import "time"

// Palette of color tags a subject (and a generated study slot) may carry.
const (
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorPurple = "purple"
	ColorOrange = "orange"
	ColorRed    = "red"
	ColorPink   = "pink"
	ColorGray   = "gray"
	ColorYellow = "yellow"
	ColorCyan   = "cyan"
)

// DefaultColor is used whenever a color tag is missing or unknown.
const DefaultColor = ColorBlue

// Colors lists the full palette in display order.
var Colors = []string{
	ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed,
	ColorPink, ColorGray, ColorYellow, ColorCyan,
}

// KnownColor reports whether tag is part of the palette.
func KnownColor(tag string) bool {
	for _, c := range Colors {
		if c == tag {
			return true
		}
	}
	return false
}

// Subject is a study subject owned by a user.
type Subject struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	Name        string `gorm:"index:idx_user_subject_name,unique"`
	Description string
	Color       string // palette tag
	TimeLearned string `gorm:"default:0m"` // cumulative learned-time label, e.g. "3h 20m"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
