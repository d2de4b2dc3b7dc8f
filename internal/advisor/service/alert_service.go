package service

import (
	"context"
	"fmt"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"
	"golang-portfolio-advisor/pkg/telegram"

	"github.com/shopspring/decimal"
)

const DefaultAlertCooldown = time.Hour

// AlertService derives, records and lists proximity alerts.
type AlertService interface {
	Derive(position entity.Position) dto.AlertCheck
	// RecordIfNew persists the alert unless one with the same (user, position, type) exists within the cooldown.
	RecordIfNew(ctx context.Context, position entity.Position, check dto.AlertCheck) (bool, error)
	ListAlerts(ctx context.Context, userID string) ([]entity.Alert, error)
	MarkRead(ctx context.Context, userID, alertID string) (*entity.Alert, error)
}

type alertService struct {
	alertRepo repository.AlertRepository
	notifier  telegram.Notifier
	rules     AlertRules
	cooldown  time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

// AlertServiceOption customises an alert service.
type AlertServiceOption func(*alertService)

func WithClock(now func() time.Time) AlertServiceOption {
	return func(s *alertService) { s.now = now }
}

func WithCooldown(cooldown time.Duration) AlertServiceOption {
	return func(s *alertService) {
		if cooldown > 0 {
			s.cooldown = cooldown
		}
	}
}

func WithRules(rules AlertRules) AlertServiceOption {
	return func(s *alertService) { s.rules = rules }
}

// NewAlertService creates an alert service. notifier may be nil.
func NewAlertService(alertRepo repository.AlertRepository, notifier telegram.Notifier, log *logger.Logger, opts ...AlertServiceOption) AlertService {
	s := &alertService{
		alertRepo: alertRepo,
		notifier:  notifier,
		rules:     DefaultAlertRules(),
		cooldown:  DefaultAlertCooldown,
		now:       time.Now,
		logger:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = telegram.NopNotifier{}
	}
	return s
}

func (s *alertService) Derive(position entity.Position) dto.AlertCheck {
	return s.rules.Derive(position)
}

func (s *alertService) RecordIfNew(ctx context.Context, position entity.Position, check dto.AlertCheck) (bool, error) {
	if !check.Trigger || !position.CurrentPrice.Valid {
		return false, nil
	}

	now := s.now().UTC()
	recent, err := s.alertRepo.FindRecent(ctx, position.UserID, position.ID, check.Type, now.Add(-s.cooldown))
	if err != nil {
		return false, fmt.Errorf("failed to look up recent alert: %w", err)
	}
	if recent != nil {
		s.logger.DebugContext(ctx, "Alert suppressed by cooldown",
			logger.StringField("position_id", position.ID), logger.StringField("type", string(check.Type)))
		return false, nil
	}

	alert := &entity.Alert{
		UserID:       position.UserID,
		PositionID:   position.ID,
		Symbol:       position.Symbol,
		Message:      check.Message,
		TargetPrice:  recordedTarget(position),
		CurrentPrice: position.CurrentPrice.Decimal,
		Type:         check.Type,
		CreatedAt:    now,
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return false, fmt.Errorf("failed to create alert: %w", err)
	}

	s.logger.InfoContext(ctx, "Price alert recorded",
		logger.StringField("user_id", position.UserID),
		logger.StringField("symbol", position.Symbol),
		logger.StringField("type", string(check.Type)))

	msg := telegram.FormatPriceAlertMessage(alert, FormatMoney(alert.CurrentPrice, s.rules.Currency), FormatMoney(alert.TargetPrice, s.rules.Currency))
	if err := s.notifier.SendMessage(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to send alert notification", logger.ErrorField(err), logger.StringField("symbol", position.Symbol))
	}
	return true, nil
}

// recordedTarget prefers the AI target, then the sell and buy targets, and never returns null.
func recordedTarget(position entity.Position) decimal.Decimal {
	switch {
	case position.AITargetPrice.Valid:
		return position.AITargetPrice.Decimal
	case position.TargetSellPrice.Valid:
		return position.TargetSellPrice.Decimal
	case position.TargetBuyPrice.Valid:
		return position.TargetBuyPrice.Decimal
	default:
		return decimal.Zero
	}
}

func (s *alertService) ListAlerts(ctx context.Context, userID string) ([]entity.Alert, error) {
	return s.alertRepo.FindByUserID(ctx, userID)
}

func (s *alertService) MarkRead(ctx context.Context, userID, alertID string) (*entity.Alert, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if alert.UserID != userID {
		return nil, ErrForbidden
	}
	if err := s.alertRepo.MarkRead(ctx, alertID); err != nil {
		return nil, err
	}
	alert.IsRead = true
	return alert, nil
}
