package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto_cashier/internal/config"
	"crypto_cashier/internal/db"
	httpServer "crypto_cashier/internal/http"
	"crypto_cashier/internal/http/handlers"
	"crypto_cashier/internal/http/middleware"
	"crypto_cashier/internal/logger"
	"crypto_cashier/internal/migrations"
	"crypto_cashier/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	defer logger.Sync()

	if cfg.AutoMigrate {
		v, err := migrations.Up(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
		logger.Info("schema up to date", "version", v)
	}

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	if cfg.RedisAddr != "" {
		middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	hub := ws.NewHub()
	h, err := handlers.NewHandler(dbPool, cfg, hub)
	if err != nil {
		logger.Fatal("failed to build handlers", "error", err)
	}

	health := handlers.NewHealthHandler(dbPool, version)
	if cfg.RedisAddr != "" {
		health.WithCheck("redis", handlers.PingFunc(middleware.RedisPing))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(cfg.AllowedOrigins))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler: h,
		Health:  health,
		Hub:     hub,
		Config:  cfg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "network", cfg.BTCNetwork)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// закрываем admin-фиды: Shutdown не трогает hijacked ws соединения
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
