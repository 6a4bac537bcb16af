package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	"github.com/harmoniawellness/wellness-scheduler/internal/config"
	dbpkg "github.com/harmoniawellness/wellness-scheduler/internal/db"
	"github.com/harmoniawellness/wellness-scheduler/internal/logger"
	"github.com/harmoniawellness/wellness-scheduler/internal/payments"
	"github.com/harmoniawellness/wellness-scheduler/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	availCache := cache.NewAvailabilityCache(cfg.RedisAddr, log)

	gateway, err := payments.NewMercadoPagoGateway(cfg.MPAccessToken, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal("payment gateway init failed", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log, availCache, gateway)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
