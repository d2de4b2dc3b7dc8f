package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang-portfolio-advisor/internal/advisor/config"
	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserLister struct {
	repository.PositionRepository
	userIDs []string
	err     error
}

func (s stubUserLister) ListUserIDs(context.Context) ([]string, error) {
	return s.userIDs, s.err
}

type fakePortfolioService struct {
	mu      sync.Mutex
	ran     []string
	started chan struct{}
	release chan struct{}
	panicOn string
	errOn   string
}

func (f *fakePortfolioService) RunForUser(ctx context.Context, userID string) (*dto.AnalyzeResult, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if userID == f.panicOn {
		panic("boom")
	}
	f.mu.Lock()
	f.ran = append(f.ran, userID)
	f.mu.Unlock()
	if userID == f.errOn {
		return nil, errors.New("user failed")
	}
	return &dto.AnalyzeResult{Positions: []entity.Position{}}, nil
}

func (f *fakePortfolioService) RefreshPrices(context.Context, string) ([]entity.Position, error) {
	return nil, nil
}

func TestRunGuard(t *testing.T) {
	var g runGuard
	inner := true
	outer := g.Do(func() {
		inner = g.Do(func() {})
	})
	assert.True(t, outer)
	assert.False(t, inner)
	assert.True(t, g.Do(func() {}), "guard must be released after fn returns")

	assert.Panics(t, func() {
		g.Do(func() { panic("boom") })
	})
	assert.True(t, g.Do(func() {}), "guard must be released after a panic")
}

func TestSchedulerService_OverlappingTriggersAreDropped(t *testing.T) {
	portfolio := &fakePortfolioService{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewSchedulerService(stubUserLister{userIDs: []string{"user-1"}}, portfolio, config.Scheduler{}, logger.NewNop())
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- svc.RunCycle(ctx) }()

	select {
	case <-portfolio.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not start")
	}

	assert.False(t, svc.RunCycle(ctx))
	_, err := svc.RunForUserNow(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCycleInProgress)

	close(portfolio.release)
	assert.True(t, <-done)

	portfolio.started = nil
	result, err := svc.RunForUserNow(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestSchedulerService_UserFailuresAreIsolated(t *testing.T) {
	portfolio := &fakePortfolioService{panicOn: "user-a", errOn: "user-b"}
	svc := NewSchedulerService(
		stubUserLister{userIDs: []string{"user-a", "user-b", "user-c"}},
		portfolio,
		config.Scheduler{MaxConcurrentUsers: 2},
		logger.NewNop(),
	)

	assert.True(t, svc.RunCycle(context.Background()))
	assert.ElementsMatch(t, []string{"user-b", "user-c"}, portfolio.ran)
}

func TestSchedulerService_EnumerationFailureStillCountsAsCycle(t *testing.T) {
	portfolio := &fakePortfolioService{}
	svc := NewSchedulerService(stubUserLister{err: errors.New("db down")}, portfolio, config.Scheduler{}, logger.NewNop())

	assert.True(t, svc.RunCycle(context.Background()))
	assert.Empty(t, portfolio.ran)
}

func TestSchedulerService_StartRejectsInvalidCron(t *testing.T) {
	svc := NewSchedulerService(stubUserLister{}, &fakePortfolioService{}, config.Scheduler{Cron: "not a cron"}, logger.NewNop())
	assert.Error(t, svc.Start(context.Background()))
}

func TestSchedulerService_StartRunsOnceAndStops(t *testing.T) {
	portfolio := &fakePortfolioService{}
	svc := NewSchedulerService(
		stubUserLister{userIDs: []string{"user-1"}},
		portfolio,
		config.Scheduler{Cron: "@every 1h", RunOnStart: true},
		logger.NewNop(),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, []string{"user-1"}, portfolio.ran)
}
