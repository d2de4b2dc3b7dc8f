package service

import (
	"context"
	"testing"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"
	"golang-portfolio-advisor/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptionRequest() dto.CreateOptionRequest {
	return dto.CreateOptionRequest{
		UnderlyingSymbol: "tcs.ns",
		OptionType:       "PE",
		StrikePrice:      decimal.NewFromInt(3600),
		ExpiryDate:       time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC),
		Quantity:         1,
		Premium:          decimal.NewFromInt(40),
	}
}

func TestOptionService_Create(t *testing.T) {
	db := newTestDB(t)
	positionRepo := repository.NewPositionRepository(db)
	svc := NewOptionService(repository.NewOptionRepository(db), positionRepo, logger.NewNop())
	ctx := context.Background()

	own := seedPosition(t, positionRepo, entity.Position{UserID: "user-1", Symbol: "TCS.NS"})
	other := seedPosition(t, positionRepo, entity.Position{UserID: "user-2", Symbol: "TCS.NS"})

	req := validOptionRequest()
	req.Strategy = utils.ToPointer("Protective Put")
	req.LinkedPositionID = &own.ID
	created, err := svc.Create(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", created.UnderlyingSymbol)
	assert.Equal(t, entity.OptionTypePut, created.OptionType)
	require.NotNil(t, created.Strategy)
	assert.Equal(t, entity.StrategyProtectivePut, *created.Strategy)

	req = validOptionRequest()
	req.OptionType = "future"
	_, err = svc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validOptionRequest()
	req.Strategy = utils.ToPointer("butterfly")
	_, err = svc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validOptionRequest()
	req.LinkedPositionID = &other.ID
	_, err = svc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, ErrForbidden)

	req = validOptionRequest()
	req.LinkedPositionID = utils.ToPointer("missing")
	_, err = svc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOptionService_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	positionRepo := repository.NewPositionRepository(db)
	svc := NewOptionService(repository.NewOptionRepository(db), positionRepo, logger.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", validOptionRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-2", created.ID, dto.UpdateOptionRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, "user-1", created.ID, dto.UpdateOptionRequest{
		CurrentPrice: utils.ToPointer(decimal.NewFromInt(55)),
		Strategy:     utils.ToPointer("collar"),
	})
	require.NoError(t, err)
	assert.Equal(t, "55", updated.CurrentPrice.Decimal.String())
	assert.Equal(t, entity.StrategyCollar, *updated.Strategy)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", created.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))

	options, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, options)
}
