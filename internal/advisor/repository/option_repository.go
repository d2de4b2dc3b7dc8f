package repository

import (
	"context"

	"golang-portfolio-advisor/internal/entity"

	"gorm.io/gorm"
)

// OptionRepository defines the interface for options position data operations.
type OptionRepository interface {
	Create(ctx context.Context, option *entity.Option) error
	FindByID(ctx context.Context, id string) (*entity.Option, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Option, error)
	Update(ctx context.Context, option *entity.Option) error
	Delete(ctx context.Context, id string) error
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

type optionRepository struct {
	db *gorm.DB
}

func (r *optionRepository) Create(ctx context.Context, option *entity.Option) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *optionRepository) FindByID(ctx context.Context, id string) (*entity.Option, error) {
	var option entity.Option
	if err := r.db.WithContext(ctx).First(&option, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Option, error) {
	var options []entity.Option
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (r *optionRepository) Update(ctx context.Context, option *entity.Option) error {
	return r.db.WithContext(ctx).Save(option).Error
}

func (r *optionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Option{}, "id = ?", id).Error
}
