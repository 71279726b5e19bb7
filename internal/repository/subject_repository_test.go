package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"learncraft/internal/model"
)

func TestSubjectRepositoryLifecycle(t *testing.T) {
	repo := NewSubjectRepository(newTestDB(t))
	ctx := context.Background()

	math := model.Subject{UserID: 1, Name: "Math", Color: "blue", TimeLearned: "0m"}
	art := model.Subject{UserID: 1, Name: "Art", Color: "pink", TimeLearned: "0m"}
	other := model.Subject{UserID: 2, Name: "Biology", Color: "green", TimeLearned: "0m"}
	require.NoError(t, repo.Create(ctx, &math))
	require.NoError(t, repo.Create(ctx, &art))
	require.NoError(t, repo.Create(ctx, &other))

	subjects, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	// listed alphabetically, scoped to the user
	assert.Equal(t, "Art", subjects[0].Name)
	assert.Equal(t, "Math", subjects[1].Name)

	found, err := repo.FindByID(ctx, 1, math.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", found.Name)

	// lookups do not cross user boundaries
	_, err = repo.FindByID(ctx, 2, math.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, 1, math.ID))
	_, err = repo.FindByID(ctx, 1, math.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoutineRepositoryLifecycle(t *testing.T) {
	repo := NewRoutineRepository(newTestDB(t))
	ctx := context.Background()

	gym := model.Routine{UserID: 1, Name: "Gym", StartTime: "07:00", EndTime: "08:00"}
	lunch := model.Routine{UserID: 1, Name: "Lunch", StartTime: "13:00", EndTime: "13:30"}
	require.NoError(t, repo.Create(ctx, &gym))
	require.NoError(t, repo.Create(ctx, &lunch))

	routines, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, routines, 2)
	assert.Equal(t, "Gym", routines[0].Name)

	found, err := repo.FindByID(ctx, 1, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", found.Name)

	require.NoError(t, repo.Delete(ctx, 1, gym.ID))
	_, err = repo.FindByID(ctx, 1, gym.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserUpsertFromTelegram(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.UpsertFromTelegram(ctx, 100500, "Ada", "Lovelace", "ada")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// the same Telegram account resolves to the same student, with the
	// profile fields refreshed
	updated, err := repo.UpsertFromTelegram(ctx, 100500, "Ada", "L.", "ada_l")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "L.", updated.LastName)
	assert.Equal(t, "ada_l", updated.Username)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
