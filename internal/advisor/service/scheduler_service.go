package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang-portfolio-advisor/internal/advisor/config"
	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/pkg/logger"
	"golang-portfolio-advisor/pkg/utils"

	"github.com/robfig/cron/v3"
)

// runGuard admits at most one holder at a time.
type runGuard struct {
	busy atomic.Bool
}

// Do runs fn if the guard is free and reports whether it ran.
func (g *runGuard) Do(fn func()) bool {
	if !g.busy.CompareAndSwap(false, true) {
		return false
	}
	defer g.busy.Store(false)
	fn()
	return true
}

// SchedulerService runs the periodic portfolio re-evaluation cycle.
type SchedulerService interface {
	// Start runs one cycle, then follows the cron schedule until ctx is done.
	Start(ctx context.Context) error
	// RunCycle evaluates every user with positions. It returns false when a cycle was already running.
	RunCycle(ctx context.Context) bool
	// RunForUserNow is the manual trigger. It shares the cycle guard.
	RunForUserNow(ctx context.Context, userID string) (*dto.AnalyzeResult, error)
}

type schedulerService struct {
	positionRepo repository.PositionRepository
	portfolioSvc PortfolioService
	cfg          config.Scheduler
	cronParser   cron.Parser
	guard        runGuard
	logger       *logger.Logger
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(positionRepo repository.PositionRepository, portfolioSvc PortfolioService, cfg config.Scheduler, log *logger.Logger) SchedulerService {
	if cfg.MaxConcurrentUsers <= 0 {
		cfg.MaxConcurrentUsers = 1
	}
	return &schedulerService{
		positionRepo: positionRepo,
		portfolioSvc: portfolioSvc,
		cfg:          cfg,
		cronParser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger:       log,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	c := cron.New(cron.WithParser(s.cronParser))
	if _, err := c.AddFunc(s.cfg.Cron, func() { s.RunCycle(ctx) }); err != nil {
		return fmt.Errorf("invalid scheduler cron %q: %w", s.cfg.Cron, err)
	}

	if s.cfg.RunOnStart {
		s.RunCycle(ctx)
	}

	c.Start()
	s.logger.Info("Scheduler started", logger.StringField("cron", s.cfg.Cron))

	<-ctx.Done()
	s.logger.Info("Scheduler service stopping")
	<-c.Stop().Done()
	return nil
}

func (s *schedulerService) RunCycle(ctx context.Context) bool {
	ran := s.guard.Do(func() {
		s.runCycle(ctx)
	})
	if !ran {
		s.logger.WarnContext(ctx, "Skipping cycle, previous cycle still running")
	}
	return ran
}

func (s *schedulerService) runCycle(ctx context.Context) {
	start := time.Now()
	userIDs, err := s.positionRepo.ListUserIDs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enumerate users", logger.ErrorField(err))
		return
	}

	sem := make(chan struct{}, s.cfg.MaxConcurrentUsers)
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(userID string) {
			defer func() {
				<-sem
				wg.Done()
			}()
			s.runUser(ctx, userID)
		}(userID)
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "Cycle completed",
		logger.IntField("users", len(userIDs)),
		logger.DurationField("elapsed", time.Since(start)))
}

// runUser keeps one user's failure or panic away from the rest of the cycle.
func (s *schedulerService) runUser(ctx context.Context, userID string) {
	err := utils.Recover(func() error {
		_, err := s.portfolioSvc.RunForUser(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to evaluate user portfolio",
			logger.StringField("user_id", userID), logger.ErrorField(err))
	}
}

func (s *schedulerService) RunForUserNow(ctx context.Context, userID string) (*dto.AnalyzeResult, error) {
	var (
		result *dto.AnalyzeResult
		err    error
	)
	ran := s.guard.Do(func() {
		err = utils.Recover(func() error {
			var runErr error
			result, runErr = s.portfolioSvc.RunForUser(ctx, userID)
			return runErr
		})
	})
	if !ran {
		return nil, ErrCycleInProgress
	}
	return result, err
}
