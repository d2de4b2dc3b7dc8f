package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-portfolio-advisor/internal/advisor/config"
	delivery "golang-portfolio-advisor/internal/advisor/delivery/http"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/advisor/service"
	"golang-portfolio-advisor/pkg/logger"
	"golang-portfolio-advisor/pkg/postgres"
	"golang-portfolio-advisor/pkg/redis"
	"golang-portfolio-advisor/pkg/telegram"
	"golang-portfolio-advisor/pkg/utils"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio advisor API and scheduler",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Portfolio Advisor", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	var priceCache repository.PriceCacheRepository
	if cfg.Redis.Host != "" {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		priceCache = repository.NewPriceCacheRepository(redisClient.Client, cfg.PriceCache.TTL)
	} else {
		appLogger.Warn("Redis not configured, last-price cache disabled")
	}

	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
		}
	}

	aiRepo, err := repository.NewAIRepository(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI provider", logger.ErrorField(err))
	}

	// Repositories
	positionRepo := repository.NewPositionRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)
	optionRepo := repository.NewOptionRepository(db.DB)
	analysisLogRepo := repository.NewAnalysisLogRepository(db.DB)
	yahooRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	newsRepo := repository.NewNewsRepository(cfg.News.FeedURL)

	// Services
	quoteSvc := service.NewQuoteService(yahooRepo, priceCache, appLogger)
	advisorySvc := service.NewAdvisoryService(aiRepo, appLogger)
	alertSvc := service.NewAlertService(alertRepo, notifier, appLogger,
		service.WithCooldown(cfg.Alert.Cooldown),
		service.WithRules(service.NewAlertRules(cfg.Alert.ProximityThreshold, cfg.Alert.Currency)))
	portfolioSvc := service.NewPortfolioService(positionRepo, analysisLogRepo, quoteSvc, advisorySvc, alertSvc, appLogger)
	schedulerSvc := service.NewSchedulerService(positionRepo, portfolioSvc, cfg.Scheduler, appLogger)
	hedgingSvc := service.NewHedgingService(positionRepo, optionRepo, analysisLogRepo, aiRepo, appLogger)
	screenerSvc := service.NewScreenerService(aiRepo, newsRepo, quoteSvc, cfg.News.MaxItems, appLogger)
	positionSvc := service.NewPositionService(positionRepo, quoteSvc, appLogger)
	optionSvc := service.NewOptionService(optionRepo, positionRepo, appLogger)
	analysisLogSvc := service.NewAnalysisLogService(analysisLogRepo)

	utils.GoSafe(func() {
		if err := schedulerSvc.Start(ctx); err != nil {
			appLogger.Error("Scheduler failed to start", logger.ErrorField(err))
			stop()
		}
	}, func(err error) {
		appLogger.Error("Scheduler panicked", logger.ErrorField(err))
		stop()
	})

	e := delivery.NewServer(delivery.Handlers{
		Position: delivery.NewPositionHandler(positionSvc, portfolioSvc, schedulerSvc, appLogger),
		Alert:    delivery.NewAlertHandler(alertSvc, appLogger),
		Option:   delivery.NewOptionHandler(optionSvc, hedgingSvc, screenerSvc, appLogger),
		Analysis: delivery.NewAnalysisHandler(screenerSvc, analysisLogSvc, appLogger),
	}, cfg.Auth.JWTSecret, appLogger)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "advisor-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
