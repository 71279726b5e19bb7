package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"learncraft/internal/model"
)

func TestCreateSubjectValidation(t *testing.T) {
	svc := NewSubjectService(nil)
	user := &model.User{ID: 1}

	t.Run("name required", func(t *testing.T) {
		_, err := svc.CreateSubject(context.Background(), user, SubjectInput{Color: "blue"})
		assert.Error(t, err)
	})

	t.Run("unknown color rejected", func(t *testing.T) {
		_, err := svc.CreateSubject(context.Background(), user, SubjectInput{Name: "Art", Color: "teal"})
		assert.ErrorIs(t, err, ErrUnknownColor)
	})
}

func TestKnownColor(t *testing.T) {
	for _, c := range model.Colors {
		assert.True(t, model.KnownColor(c), c)
	}
	assert.False(t, model.KnownColor("teal"))
	assert.False(t, model.KnownColor(""))
	assert.False(t, model.KnownColor("Blue"))
}
