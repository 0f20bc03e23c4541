package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sweetmerry/booking-api/internal/config"
	dbpkg "github.com/sweetmerry/booking-api/internal/db"
	"github.com/sweetmerry/booking-api/internal/middleware"
	"github.com/sweetmerry/booking-api/internal/observability"
	"github.com/sweetmerry/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := dbpkg.NewDB(cfg, logger)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(observability.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := routes.RegisterRoutes(r, db, cfg, logger); err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}

	logger.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
