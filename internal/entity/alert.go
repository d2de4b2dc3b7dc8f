package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Alert is a proximity notification raised for one position. Only IsRead changes after creation.
type Alert struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string          `gorm:"type:varchar(128);not null;index:idx_alerts_recent,priority:1" json:"user_id"`
	PositionID   string          `gorm:"type:varchar(36);not null;index:idx_alerts_recent,priority:2" json:"position_id"`
	Symbol       string          `gorm:"type:varchar(32);not null" json:"symbol"`
	Message      string          `gorm:"type:text;not null" json:"message"`
	TargetPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"target_price"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"current_price"`
	Type         AlertType       `gorm:"type:varchar(8);not null;index:idx_alerts_recent,priority:3" json:"type"`
	IsRead       bool            `gorm:"not null;default:false" json:"is_read"`
	CreatedAt    time.Time       `gorm:"not null;index:idx_alerts_recent,priority:4" json:"created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
