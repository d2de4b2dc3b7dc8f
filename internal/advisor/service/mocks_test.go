package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type mockAIRepository struct {
	mock.Mock
}

func (m *mockAIRepository) Generate(ctx context.Context, req repository.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// fakeYahoo serves fixed prices. Symbols without a price fail with ErrNoQuote.
type fakeYahoo struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  int
	delay  time.Duration
}

func (f *fakeYahoo) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	f.mu.Lock()
	f.calls++
	price, ok := f.prices[symbol]
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNoQuote, symbol)
	}
	return &dto.Quote{Symbol: symbol, Price: price}, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) SendMessage(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return n.err
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Position{}, &entity.Alert{}, &entity.Option{}, &entity.AnalysisLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func price(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func seedPosition(t *testing.T, repo repository.PositionRepository, p entity.Position) *entity.Position {
	t.Helper()
	if p.Quantity == 0 {
		p.Quantity = 10
	}
	if p.BuyPrice.IsZero() {
		p.BuyPrice = decimal.NewFromInt(3500)
	}
	require.NoError(t, repo.Create(context.Background(), &p))
	return &p
}

func dtoCheck(alertType entity.AlertType, target string) dto.AlertCheck {
	return dto.AlertCheck{
		Trigger:     true,
		Message:     "test alert",
		Type:        alertType,
		TargetPrice: decimal.RequireFromString(target),
	}
}
