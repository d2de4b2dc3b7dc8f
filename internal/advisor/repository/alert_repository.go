package repository

import (
	"context"
	"errors"
	"time"

	"golang-portfolio-advisor/internal/entity"

	"gorm.io/gorm"
)

// AlertRepository defines the interface for alert data operations.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	FindByID(ctx context.Context, id string) (*entity.Alert, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Alert, error)
	// FindRecent returns the newest alert for the triple created after since, or nil when there is none.
	FindRecent(ctx context.Context, userID, positionID string, alertType entity.AlertType, since time.Time) (*entity.Alert, error)
	MarkRead(ctx context.Context, id string) error
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

type alertRepository struct {
	db *gorm.DB
}

func (r *alertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) FindByID(ctx context.Context, id string) (*entity.Alert, error) {
	var alert entity.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Alert, error) {
	var alerts []entity.Alert
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) FindRecent(ctx context.Context, userID, positionID string, alertType entity.AlertType, since time.Time) (*entity.Alert, error) {
	var alert entity.Alert
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND position_id = ? AND type = ? AND created_at > ?", userID, positionID, alertType, since).
		Order("created_at DESC").
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Alert{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
