package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/snapcal/backend/config"
	"github.com/pageza/snapcal/backend/internal/api"
	"github.com/pageza/snapcal/backend/internal/database"
	"github.com/pageza/snapcal/backend/internal/middleware"
	"github.com/pageza/snapcal/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	db       *gorm.DB
	redis    *redis.Client
	registry *prometheus.Registry
}

// New wires every service onto a gin router. s3 may be nil, which disables
// photo uploads.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3 *config.S3Config) *Server {
	gin.SetMode(config.GinMode())
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	settingsService := service.NewSettingsService(db)
	profileService := service.NewProfileService(db)
	calorieService := service.NewCalorieService(db)

	gemini := service.NewGeminiAnalyzer(cfg.GeminiModel, cfg.GeminiEndpoint, cfg.HTTPTimeout)
	probe := service.NewOnDeviceProbe(cfg.OnDevicePlatformVersion, cfg.OnDeviceMinVersion, cfg.OnDeviceComponentDir, nil)
	analyzer := service.NewAnalyzerService(
		settingsService,
		service.NewGPTAnalyzer(cfg.OpenAIAPIURL, cfg.OpenAIModel, cfg.OpenAIMaxTokens, nil, cfg.HTTPTimeout),
		gemini,
		service.NewOnDeviceAnalyzer(probe, gemini),
		service.NewAnalysisMetrics(registry),
	)

	deps := api.Deps{
		Analyzer:  analyzer,
		Drafts:    service.NewDraftStore(redisClient, cfg.DraftTTL),
		Settings:  settingsService,
		Profiles:  profileService,
		Calories:  calorieService,
		Dashboard: service.NewDashboardService(calorieService, profileService),
		Tokens:    service.NewTokenService(cfg.JWTSecret),
	}
	if s3 != nil {
		deps.Images = service.NewS3ImageStore(s3)
	}
	if cfg.AnalysisRateLimit > 0 {
		deps.RateLimiter = middleware.NewAnalysisRateLimiter(redisClient, cfg.AnalysisRateLimit)
	}

	s := &Server{
		router:   router,
		db:       db,
		redis:    redisClient,
		registry: registry,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(middleware.ErrorHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))))
	api.SetupAPI(router, deps)

	return s
}

// health reports database and Redis reachability
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "database": "ok", "redis": "ok"}

	if err := database.HealthCheck(ctx, s.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = err.Error()
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["redis"] = err.Error()
	}

	c.JSON(status, body)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the routed engine, mainly for in-process tests
func (s *Server) Handler() http.Handler {
	return s.router
}
