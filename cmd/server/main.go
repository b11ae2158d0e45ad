package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bj-service/internal/api"
	"bj-service/internal/config"
	"bj-service/internal/event"
	"bj-service/internal/jobs"
	"bj-service/internal/monitoring"
	"bj-service/internal/repo"
	"bj-service/internal/service"
	"bj-service/internal/service/settlement"
	"bj-service/internal/ws"
	"bj-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Config
	config.LoadConfig(configPath)
	conf := config.GlobalConfig

	// 2. Init Logger & Metrics
	logger.InitLogger(conf.Server.Mode)
	defer logger.Log.Sync()
	monitoring.Init()

	logger.Log.Info("Starting server...", zap.String("mode", conf.Server.Mode))

	// 3. Init DB & Redis
	repo.InitDB()
	repo.InitRedis()

	// 4. Init Services
	services := service.NewContainer(repo.DB, repo.RDB, settlement.Config{
		CacheTTL: conf.Redis.TTL(),
		Workers:  conf.Settlement.Workers,
	})

	hub := ws.NewHub()
	services.Settlement.AddNotifier(hub)

	if conf.NATS.URL != "" {
		nc, err := event.Connect(conf.NATS.URL)
		if err != nil {
			logger.Log.Fatal("Failed to connect to NATS", zap.String("url", conf.NATS.URL), zap.Error(err))
		}
		defer nc.Drain()
		services.Settlement.AddNotifier(event.NewPublisher(nc, conf.NATS.Subject))
	}

	if err := services.Start(ctx, conf.Settlement.SweepBatch); err != nil {
		logger.Log.Error("Failed to settle backlog", zap.Error(err))
	}

	// 5. Background jobs
	manager := jobs.New()
	if conf.Settlement.SweepSpec != "" {
		manager.Register(jobs.NewSettlementSweep(services.Settlement, conf.Settlement.SweepSpec, conf.Settlement.SweepBatch))
	}
	go manager.Start(ctx)

	// 6. Init Router
	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.RegisterRoutes(r, services, hub)

	// 7. Start Server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", conf.Server.Port),
		Handler: r,
	}
	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
}
