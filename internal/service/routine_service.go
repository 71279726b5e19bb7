package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"learncraft/internal/model"
	"learncraft/internal/repository"
)

// RoutineInput represents data required to create a routine.
type RoutineInput struct {
	Name      string
	StartTime string
	EndTime   string
}

// RoutineService wraps routine-related business logic.
type RoutineService struct {
	repo *repository.RoutineRepository
}

func NewRoutineService(repo *repository.RoutineRepository) *RoutineService {
	return &RoutineService{repo: repo}
}

// CreateRoutine validates all fields client-side before touching the store.
func (s *RoutineService) CreateRoutine(ctx context.Context, user *model.User, input RoutineInput) (*model.Routine, error) {
	if input.Name == "" || input.StartTime == "" || input.EndTime == "" {
		return nil, ErrRoutineFieldsMissing
	}
	if err := validateClock(input.StartTime); err != nil {
		return nil, err
	}
	if err := validateClock(input.EndTime); err != nil {
		return nil, err
	}

	routine := model.Routine{
		UserID:    user.ID,
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}

	if err := s.repo.Create(ctx, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (s *RoutineService) List(ctx context.Context, user *model.User) ([]model.Routine, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *RoutineService) GetRoutine(ctx context.Context, user *model.User, routineID uint) (*model.Routine, error) {
	return s.repo.FindByID(ctx, user.ID, routineID)
}

// DeleteRoutine removes a routine for the given user.
func (s *RoutineService) DeleteRoutine(ctx context.Context, user *model.User, routineID uint) error {
	return s.repo.Delete(ctx, user.ID, routineID)
}

// validateClock checks a wall-clock HH:MM string.
func validateClock(timeStr string) error {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute in %q", timeStr)
	}
	return nil
}
