package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"goalpath/internal/config"
	"goalpath/internal/handler"
	"goalpath/internal/httpserver"
	"goalpath/internal/mutate"
	"goalpath/internal/repository"
	"goalpath/internal/service/auth"
	"goalpath/internal/service/enhance"
	"goalpath/internal/service/goal"
	"goalpath/internal/service/tools"
	"goalpath/pkg/db"
	"goalpath/pkg/logger"
	"goalpath/pkg/redis"
	"goalpath/pkg/util"
)

func main() {
	cfg := config.Load()

	logger := logger.NewLogger()
	defer logger.Sync()

	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis is optional: a nil client disables dedup and caching.
	rdb := redis.NewClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	goalRepo := repository.NewGoalRepository(dbConn, logger)
	goalActionRepo := repository.NewGoalActionRepository(dbConn, logger)
	milestoneActionRepo := repository.NewMilestoneActionRepository(dbConn, logger)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, logger)
	toolsRepo := repository.NewToolsRepository(dbConn, logger)

	// Enhancement client and the engines built on it
	enhanceClient := enhance.NewClient(cfg.Enhance, logger)
	engine := mutate.NewEngine(enhanceClient, cfg.Enhance.MaxBreakdownDepth, cfg.Enhance.EstimateConcurrency, logger)
	dedupe := util.NewDeduper(rdb, 2*time.Minute, logger)

	// Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	goalService := goal.NewService(goal.Deps{
		Goals:            goalRepo,
		Actions:          goalActionRepo,
		MilestoneActions: milestoneActionRepo,
		Milestones:       milestoneRepo,
		Users:            userRepo,
		Enhancer:         enhanceClient,
		Engine:           engine,
		Dedupe:           dedupe,
		Demo:             goal.NewDemoReader(),
		DemoEmail:        cfg.Demo.UserEmail,
		Logger:           logger,
	})
	toolsService := tools.NewService(toolsRepo, goalService, enhanceClient, rdb, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	goalHandler := handler.NewGoalHandler(goalService, logger)
	actionHandler := handler.NewActionHandler(goalService, logger)
	milestoneHandler := handler.NewMilestoneHandler(goalService, logger)
	toolsHandler := handler.NewToolsHandler(toolsService, logger)
	analyzeHandler := handler.NewAnalyzeHandler(enhanceClient, logger)

	router := httpserver.NewRouter(
		authHandler,
		goalHandler,
		actionHandler,
		milestoneHandler,
		toolsHandler,
		analyzeHandler,
		cfg.JWT.Secret,
		dbConn,
		logger,
	)

	logger.Info("Starting goalpath server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}
