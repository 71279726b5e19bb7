package service

import (
	"strings"

	"learncraft/internal/model"
)

// MergeSlots collapses consecutive slots that share activity label and type
// into one wider slot, keeping the first slot's start and the last slot's
// end. Comparison is exact; slots with the same label but different types do
// not merge. The scan never reorders slots or changes the covered duration,
// and it is idempotent: no two adjacent output slots can still match.
func MergeSlots(slots []model.TimeSlot) []model.TimeSlot {
	if len(slots) == 0 {
		return nil
	}

	merged := make([]model.TimeSlot, 0, len(slots))
	current := slots[0]

	for _, slot := range slots[1:] {
		if slot.Activity == current.Activity && slot.Type == current.Type {
			start, _ := SplitTimeRange(current.Time)
			_, end := SplitTimeRange(slot.Time)
			current.Time = start + " - " + end
			continue
		}
		merged = append(merged, current)
		current = slot
	}

	return append(merged, current)
}

// SplitTimeRange splits a "HH:MM - HH:MM" range into its endpoints. The
// format is assumed, not validated: a flat two-token split with trimming.
func SplitTimeRange(timeRange string) (start, end string) {
	parts := strings.SplitN(timeRange, "-", 2)
	start = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		end = strings.TrimSpace(parts[1])
	}
	return start, end
}
