package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"
)

// OptionService manages a user's held options.
type OptionService interface {
	List(ctx context.Context, userID string) ([]entity.Option, error)
	Create(ctx context.Context, userID string, req dto.CreateOptionRequest) (*entity.Option, error)
	Update(ctx context.Context, userID, id string, req dto.UpdateOptionRequest) (*entity.Option, error)
	Delete(ctx context.Context, userID, id string) error
}

type optionService struct {
	optionRepo   repository.OptionRepository
	positionRepo repository.PositionRepository
	logger       *logger.Logger
}

func NewOptionService(optionRepo repository.OptionRepository, positionRepo repository.PositionRepository, log *logger.Logger) OptionService {
	return &optionService{optionRepo: optionRepo, positionRepo: positionRepo, logger: log}
}

func (s *optionService) List(ctx context.Context, userID string) ([]entity.Option, error) {
	return s.optionRepo.FindByUserID(ctx, userID)
}

func (s *optionService) Create(ctx context.Context, userID string, req dto.CreateOptionRequest) (*entity.Option, error) {
	optionType, err := entity.ParseOptionType(req.OptionType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !req.StrikePrice.IsPositive() {
		return nil, fmt.Errorf("%w: strike_price must be positive", ErrInvalidInput)
	}
	if !req.Premium.IsPositive() {
		return nil, fmt.Errorf("%w: premium must be positive", ErrInvalidInput)
	}
	if req.ExpiryDate.IsZero() {
		return nil, fmt.Errorf("%w: expiry_date is required", ErrInvalidInput)
	}
	strategy, err := parseOptionalStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	linked, err := s.linkedPosition(ctx, userID, req.LinkedPositionID)
	if err != nil {
		return nil, err
	}

	option := &entity.Option{
		UserID:           userID,
		UnderlyingSymbol: entity.NormalizeSymbol(req.UnderlyingSymbol),
		OptionType:       optionType,
		StrikePrice:      req.StrikePrice,
		ExpiryDate:       req.ExpiryDate.UTC(),
		Quantity:         req.Quantity,
		Premium:          req.Premium,
		CurrentPrice:     req.CurrentPrice,
		Strategy:         strategy,
		LinkedPositionID: linked,
	}
	if err := s.optionRepo.Create(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to create option: %w", err)
	}
	return option, nil
}

func (s *optionService) Update(ctx context.Context, userID, id string, req dto.UpdateOptionRequest) (*entity.Option, error) {
	option, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		option.Quantity = *req.Quantity
	}
	if req.Premium != nil {
		if !req.Premium.IsPositive() {
			return nil, fmt.Errorf("%w: premium must be positive", ErrInvalidInput)
		}
		option.Premium = *req.Premium
	}
	if req.CurrentPrice != nil {
		option.CurrentPrice = nullDecimal(req.CurrentPrice)
	}
	if req.ExpiryDate != nil {
		option.ExpiryDate = req.ExpiryDate.UTC()
	}
	if req.Strategy != nil {
		strategy, err := parseOptionalStrategy(req.Strategy)
		if err != nil {
			return nil, err
		}
		option.Strategy = strategy
	}
	if req.LinkedPositionID != nil {
		linked, err := s.linkedPosition(ctx, userID, req.LinkedPositionID)
		if err != nil {
			return nil, err
		}
		option.LinkedPositionID = linked
	}

	if err := s.optionRepo.Update(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to update option: %w", err)
	}
	return option, nil
}

func (s *optionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.optionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}
	return nil
}

func (s *optionService) owned(ctx context.Context, userID, id string) (*entity.Option, error) {
	option, err := s.optionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if option.UserID != userID {
		return nil, ErrForbidden
	}
	return option, nil
}

// linkedPosition accepts only the caller's own positions. An empty id unlinks.
func (s *optionService) linkedPosition(ctx context.Context, userID string, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	position, err := s.positionRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(translateNotFound(err), ErrNotFound) {
			return nil, fmt.Errorf("%w: linked position not found", ErrInvalidInput)
		}
		return nil, err
	}
	if position.UserID != userID {
		return nil, ErrForbidden
	}
	return &position.ID, nil
}

func parseOptionalStrategy(s *string) (*entity.Strategy, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	strategy, err := entity.ParseStrategy(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &strategy, nil
}
