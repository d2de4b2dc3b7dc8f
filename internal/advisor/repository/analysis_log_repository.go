package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-portfolio-advisor/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisLogRepository stores raw AI analysis outcomes per user.
type AnalysisLogRepository interface {
	Append(ctx context.Context, userID string, kind entity.AnalysisKind, payload interface{}) error
	FindLatest(ctx context.Context, userID string, limit int) ([]entity.AnalysisLog, error)
}

func NewAnalysisLogRepository(db *gorm.DB) AnalysisLogRepository {
	return &analysisLogRepository{db: db}
}

type analysisLogRepository struct {
	db *gorm.DB
}

func (r *analysisLogRepository) Append(ctx context.Context, userID string, kind entity.AnalysisKind, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis payload: %w", err)
	}
	return r.db.WithContext(ctx).Create(&entity.AnalysisLog{
		UserID: userID,
		Kind:   kind,
		Data:   datatypes.JSON(data),
	}).Error
}

func (r *analysisLogRepository) FindLatest(ctx context.Context, userID string, limit int) ([]entity.AnalysisLog, error) {
	var logs []entity.AnalysisLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
