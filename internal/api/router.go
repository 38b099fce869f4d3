package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"bloompal-backend/config"
	"bloompal-backend/internal/mw"
	"bloompal-backend/internal/plants"
	"bloompal-backend/internal/store"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Config *config.ServerConfig
	Plants *plants.Service
	Store  store.Store
	Log    *logrus.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()
	r.Use(mw.RequestID(deps.Log))
	r.Use(mw.Logger(deps.Log))
	r.Use(gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSAllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", cfg.OwnerHeader, mw.RequestIDHeader},
			MaxAge:       1 * time.Hour,
		}))
	}
	r.Use(mw.Prometheus())

	handler := NewHandler(deps.Plants, deps.Store, deps.Log)

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Cache: short TTL since statuses move with the clock.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	// API group
	api := r.Group("/api")
	api.Use(mw.Owner(cfg.OwnerHeader))
	api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))
	api.Use(mw.InvalidateOnWrite(cacheStore))
	{
		api.GET("/plants", caching, handler.ListPlants)
		api.POST("/plants", handler.CreatePlant)
		api.POST("/plants/demo", handler.SeedDemo)

		api.GET("/plants/:plant_id", handler.GetPlant)
		api.PATCH("/plants/:plant_id", handler.EditPlant)
		api.DELETE("/plants/:plant_id", handler.DeletePlant)
		api.POST("/plants/:plant_id/water", handler.WaterPlant)
		api.PUT("/plants/:plant_id/interval", handler.SetInterval)
		api.GET("/plants/:plant_id/history", handler.PlantHistory)

		api.GET("/history", handler.Feed)
		api.GET("/dashboard", caching, handler.Dashboard)
		api.GET("/reminders", handler.Reminders)
		api.GET("/achievements", caching, handler.Achievements)
	}

	return r
}
