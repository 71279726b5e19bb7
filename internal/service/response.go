package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"learncraft/internal/model"
)

// ParseGeneratedSchedule decodes the generator's raw reply into time slots.
// Markdown code fences are stripped before parsing, since models wrap JSON in
// them despite instructions. Color tags outside the palette are coerced to
// the default so rendering never meets an unrecognized tag.
func ParseGeneratedSchedule(raw string) ([]model.TimeSlot, error) {
	clean := stripCodeFences(raw)

	var slots []model.TimeSlot
	if err := json.Unmarshal([]byte(clean), &slots); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	for i := range slots {
		if slots[i].Color != "" && !model.KnownColor(slots[i].Color) {
			slots[i].Color = model.DefaultColor
		}
	}
	return slots, nil
}

func stripCodeFences(raw string) string {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
