package service

import (
	"context"

	"learncraft/internal/model"
	"learncraft/internal/repository"
)

// PriorityService keeps the persisted priority map in line with the UI
// selection: set on select/edit, deleted on deselect.
type PriorityService struct {
	repo *repository.PriorityRepository
}

func NewPriorityService(repo *repository.PriorityRepository) *PriorityService {
	return &PriorityService{repo: repo}
}

func (s *PriorityService) Set(ctx context.Context, user *model.User, subjectID uint, level int) error {
	if level < model.PriorityMin || level > model.PriorityMax {
		return ErrInvalidPriority
	}
	return s.repo.Set(ctx, user.ID, subjectID, level)
}

func (s *PriorityService) Map(ctx context.Context, user *model.User) (model.PriorityMap, error) {
	return s.repo.MapByUser(ctx, user.ID)
}

// Remove deletes the entry entirely rather than zeroing it.
func (s *PriorityService) Remove(ctx context.Context, user *model.User, subjectID uint) error {
	return s.repo.Delete(ctx, user.ID, subjectID)
}
