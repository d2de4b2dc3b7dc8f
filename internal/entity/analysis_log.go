package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisLog keeps the raw outcome of an AI analysis run.
type AnalysisLog struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string         `gorm:"type:varchar(128);not null;index" json:"user_id"`
	Kind      AnalysisKind   `gorm:"type:varchar(16);not null" json:"kind"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (AnalysisLog) TableName() string {
	return "analysis_logs"
}

func (l *AnalysisLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
