package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpHandler "minute-empire-backend/internal/delivery/http"
	"minute-empire-backend/internal/delivery/websocket"

	"minute-empire-backend/internal/config"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/events"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/orchestrator"
	"minute-empire-backend/internal/repository"
	"minute-empire-backend/internal/scheduler"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	bus := events.NewInMemoryEventBus()
	defer bus.Close()

	villages := repository.NewVillageRepository(bus)
	troops := repository.NewTroopRepository(bus)
	actions := repository.NewTroopActionRepository()
	users := repository.NewUserRepository()

	bounds := domain.NewBounds(cfg.Quadrant)
	sched := scheduler.New()
	orch := orchestrator.New(villages, troops, actions, users, sched, bus, bounds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	recoveryTasks, err := orch.CollectRecoveryTasks(ctx)
	if err != nil {
		logger.Get().Fatal("failed to collect recovery tasks", zap.Error(err))
	}
	if err := sched.Recover(ctx, recoveryTasks, time.Now()); err != nil {
		logger.Get().Fatal("failed to recover scheduled tasks", zap.Error(err))
	}
	logger.Info("recovered pending tasks", zap.Int("count", len(recoveryTasks)))

	hub := websocket.NewHub(orch, bus)
	hub.Subscribe()
	go hub.Run(ctx)

	router := httpHandler.SetupRouter(cfg, villages, troops, orch.Accrual, orch, bounds, hub)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("minute empire backend starting", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error("server shutdown error", zap.Error(err))
	}
	sched.Shutdown()
}
