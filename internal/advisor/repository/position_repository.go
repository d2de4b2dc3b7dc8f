package repository

import (
	"context"
	"time"

	"golang-portfolio-advisor/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PositionRepository defines the interface for stock position data operations.
type PositionRepository interface {
	Create(ctx context.Context, position *entity.Position) error
	FindByID(ctx context.Context, id string) (*entity.Position, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Position, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, position *entity.Position) error
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal, at time.Time) error
	UpdateAIAnalysis(ctx context.Context, id string, action entity.Action, reason string, target decimal.NullDecimal, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// NewPositionRepository creates a new GORM-based position repository.
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

type positionRepository struct {
	db *gorm.DB
}

func (r *positionRepository) Create(ctx context.Context, position *entity.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *positionRepository) FindByID(ctx context.Context, id string) (*entity.Position, error) {
	var position entity.Position
	if err := r.db.WithContext(ctx).First(&position, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// FindByUserID returns the user's positions, newest first.
func (r *positionRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Position, error) {
	var positions []entity.Position
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// ListUserIDs returns every distinct user owning at least one position.
func (r *positionRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&entity.Position{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *positionRepository) Update(ctx context.Context, position *entity.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *positionRepository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Position{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price":     price,
			"last_price_update": at,
		}).Error
}

func (r *positionRepository) UpdateAIAnalysis(ctx context.Context, id string, action entity.Action, reason string, target decimal.NullDecimal, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Position{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_action":        action,
			"ai_reason":        reason,
			"ai_target_price":  target,
			"last_ai_analysis": at,
		}).Error
}

// Delete removes the position together with its alerts and unlinks options referencing it.
func (r *positionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("position_id = ?", id).Delete(&entity.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Option{}).
			Where("linked_position_id = ?", id).
			Update("linked_position_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Position{}, "id = ?", id).Error
	})
}
