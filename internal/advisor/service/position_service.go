package service

import (
	"context"
	"fmt"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/shopspring/decimal"
)

// PositionService manages a user's stock positions.
type PositionService interface {
	List(ctx context.Context, userID string) ([]entity.Position, error)
	Create(ctx context.Context, userID string, req dto.CreatePositionRequest) (*entity.Position, error)
	Update(ctx context.Context, userID, id string, req dto.UpdatePositionRequest) (*entity.Position, error)
	Delete(ctx context.Context, userID, id string) error
	// Price serves the last cached quote for a symbol, falling back to a live lookup.
	Price(ctx context.Context, symbol string) (*dto.Quote, error)
}

type positionService struct {
	positionRepo repository.PositionRepository
	quoteSvc     QuoteService
	now          func() time.Time
	logger       *logger.Logger
}

func NewPositionService(positionRepo repository.PositionRepository, quoteSvc QuoteService, log *logger.Logger) PositionService {
	return &positionService{
		positionRepo: positionRepo,
		quoteSvc:     quoteSvc,
		now:          time.Now,
		logger:       log,
	}
}

func (s *positionService) List(ctx context.Context, userID string) ([]entity.Position, error) {
	return s.positionRepo.FindByUserID(ctx, userID)
}

func (s *positionService) Create(ctx context.Context, userID string, req dto.CreatePositionRequest) (*entity.Position, error) {
	if !req.BuyPrice.IsPositive() {
		return nil, fmt.Errorf("%w: buy_price must be positive", ErrInvalidInput)
	}
	if err := validateOptionalPrice("target_sell_price", req.TargetSellPrice); err != nil {
		return nil, err
	}
	if err := validateOptionalPrice("target_buy_price", req.TargetBuyPrice); err != nil {
		return nil, err
	}

	position := &entity.Position{
		UserID:          userID,
		Symbol:          entity.NormalizeSymbol(req.Symbol),
		Quantity:        req.Quantity,
		BuyPrice:        req.BuyPrice,
		TargetSellPrice: nullDecimal(req.TargetSellPrice),
		TargetBuyPrice:  nullDecimal(req.TargetBuyPrice),
	}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}

	if quote, ok := s.quoteSvc.GetQuote(ctx, position.Symbol); ok {
		if err := s.positionRepo.UpdatePrice(ctx, position.ID, decimalFromQuote(*quote), s.now().UTC()); err != nil {
			s.logger.WarnContext(ctx, "Failed to store initial price",
				logger.StringField("symbol", position.Symbol), logger.ErrorField(err))
		}
	}

	created, err := s.positionRepo.FindByID(ctx, position.ID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return created, nil
}

func (s *positionService) Update(ctx context.Context, userID, id string, req dto.UpdatePositionRequest) (*entity.Position, error) {
	position, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		position.Quantity = *req.Quantity
	}
	if req.BuyPrice != nil {
		if !req.BuyPrice.IsPositive() {
			return nil, fmt.Errorf("%w: buy_price must be positive", ErrInvalidInput)
		}
		position.BuyPrice = *req.BuyPrice
	}
	if req.TargetSellPrice != nil {
		if err := validateOptionalPrice("target_sell_price", req.TargetSellPrice); err != nil {
			return nil, err
		}
		position.TargetSellPrice = nullDecimal(req.TargetSellPrice)
	}
	if req.TargetBuyPrice != nil {
		if err := validateOptionalPrice("target_buy_price", req.TargetBuyPrice); err != nil {
			return nil, err
		}
		position.TargetBuyPrice = nullDecimal(req.TargetBuyPrice)
	}

	if err := s.positionRepo.Update(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return position, nil
}

func (s *positionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.positionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

func (s *positionService) Price(ctx context.Context, symbol string) (*dto.Quote, error) {
	quote, ok := s.quoteSvc.GetCachedQuote(ctx, entity.NormalizeSymbol(symbol))
	if !ok {
		return nil, ErrNotFound
	}
	return quote, nil
}

func (s *positionService) owned(ctx context.Context, userID, id string) (*entity.Position, error) {
	position, err := s.positionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if position.UserID != userID {
		return nil, ErrForbidden
	}
	return position, nil
}

func validateOptionalPrice(field string, price *decimal.Decimal) error {
	if price != nil && !price.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, field)
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
