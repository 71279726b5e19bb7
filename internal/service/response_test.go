package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learncraft/internal/model"
)

func TestParseGeneratedSchedule(t *testing.T) {
	t.Run("plain JSON array", func(t *testing.T) {
		raw := `[{"time":"09:00 - 10:00","activity":"Math","type":"study","color":"blue"}]`

		slots, err := ParseGeneratedSchedule(raw)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "Math", slots[0].Activity)
		assert.Equal(t, model.SlotStudy, slots[0].Type)
	})

	t.Run("markdown fences are stripped", func(t *testing.T) {
		raw := "```json\n[{\"time\":\"09:00 - 10:00\",\"activity\":\"Math\",\"type\":\"study\",\"color\":\"blue\"}]\n```"

		slots, err := ParseGeneratedSchedule(raw)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "09:00 - 10:00", slots[0].Time)
	})

	t.Run("unknown color falls back to default", func(t *testing.T) {
		raw := `[{"time":"09:00 - 10:00","activity":"Art","type":"study","color":"teal"}]`

		slots, err := ParseGeneratedSchedule(raw)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultColor, slots[0].Color)
	})

	t.Run("empty color stays empty", func(t *testing.T) {
		raw := `[{"time":"10:00 - 10:15","activity":"Break","type":"break"}]`

		slots, err := ParseGeneratedSchedule(raw)
		require.NoError(t, err)
		assert.Empty(t, slots[0].Color)
	})

	t.Run("unknown slot type is kept verbatim", func(t *testing.T) {
		raw := `[{"time":"09:00 - 10:00","activity":"Nap","type":"rest"}]`

		slots, err := ParseGeneratedSchedule(raw)
		require.NoError(t, err)
		assert.Equal(t, model.SlotType("rest"), slots[0].Type)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseGeneratedSchedule("I could not produce a schedule today.")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("truncated reply", func(t *testing.T) {
		_, err := ParseGeneratedSchedule(`[{"time":"09:00`)
		assert.ErrorIs(t, err, ErrParseFailed)
	})
}
