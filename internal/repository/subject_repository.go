package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learncraft/internal/model"
)

// SubjectRepository handles CRUD for subjects.
type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	if err := r.db.WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

func (r *SubjectRepository) ListByUser(ctx context.Context, userID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *SubjectRepository) FindByID(ctx context.Context, userID, subjectID uint) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, subjectID).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) Delete(ctx context.Context, userID, subjectID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, subjectID).
		Delete(&model.Subject{}).Error; err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
