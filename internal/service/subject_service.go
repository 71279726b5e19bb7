package service

import (
	"context"
	"fmt"

	"learncraft/internal/model"
	"learncraft/internal/repository"
)

// SubjectInput represents data required to create a subject.
type SubjectInput struct {
	Name        string
	Description string
	Color       string
}

// SubjectService wraps subject-related business logic.
type SubjectService struct {
	repo *repository.SubjectRepository
}

func NewSubjectService(repo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{repo: repo}
}

func (s *SubjectService) CreateSubject(ctx context.Context, user *model.User, input SubjectInput) (*model.Subject, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	color := input.Color
	if color == "" {
		color = model.DefaultColor
	}
	if !model.KnownColor(color) {
		return nil, ErrUnknownColor
	}

	subject := model.Subject{
		UserID:      user.ID,
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		TimeLearned: "0m",
	}

	if err := s.repo.Create(ctx, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectService) List(ctx context.Context, user *model.User) ([]model.Subject, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *SubjectService) GetSubject(ctx context.Context, user *model.User, subjectID uint) (*model.Subject, error) {
	return s.repo.FindByID(ctx, user.ID, subjectID)
}

// DeleteSubject removes a subject for the given user.
func (s *SubjectService) DeleteSubject(ctx context.Context, user *model.User, subjectID uint) error {
	return s.repo.Delete(ctx, user.ID, subjectID)
}
