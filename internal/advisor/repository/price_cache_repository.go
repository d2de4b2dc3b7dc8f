package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/pkg/common"

	"github.com/redis/go-redis/v9"
)

// PriceCacheRepository keeps the last fetched quote per symbol.
type PriceCacheRepository interface {
	Set(ctx context.Context, quote dto.Quote) error
	// Get returns nil when the symbol has no cached quote.
	Get(ctx context.Context, symbol string) (*dto.Quote, error)
}

type priceCacheRepository struct {
	client redis.Cmdable
	ttl    time.Duration
	now    func() time.Time
}

func NewPriceCacheRepository(client redis.Cmdable, ttl time.Duration) PriceCacheRepository {
	return &priceCacheRepository{client: client, ttl: ttl, now: time.Now}
}

func (r *priceCacheRepository) Set(ctx context.Context, quote dto.Quote) error {
	key := fmt.Sprintf(common.RedisKeyLastPrice, quote.Symbol)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":          quote.Price,
		"change":         quote.Change,
		"change_percent": quote.ChangePercent,
		"timestamp":      r.now().Unix(),
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *priceCacheRepository) Get(ctx context.Context, symbol string) (*dto.Quote, error) {
	key := fmt.Sprintf(common.RedisKeyLastPrice, symbol)
	values, err := r.client.HGetAll(ctx, key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(values) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil || price <= 0 {
		return nil, nil
	}
	change, _ := strconv.ParseFloat(values["change"], 64)
	changePercent, _ := strconv.ParseFloat(values["change_percent"], 64)

	return &dto.Quote{Symbol: symbol, Price: price, Change: change, ChangePercent: changePercent}, nil
}
