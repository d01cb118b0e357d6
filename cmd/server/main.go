package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/PowerScaleBack/internal/config"
	"github.com/saeid-a/PowerScaleBack/internal/database"
	"github.com/saeid-a/PowerScaleBack/internal/logging"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/middleware"
	"github.com/saeid-a/PowerScaleBack/internal/routes"
	sessionws "github.com/saeid-a/PowerScaleBack/internal/websocket"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
		Environment:   cfg.AppEnv,
	})

	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	var redisClient *redis.Client
	if cfg.RedisConfigured() {
		redisClient, err = database.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer database.CloseRedis(redisClient)
	}

	var (
		registry       *prometheus.Registry
		metricsManager *metrics.Manager
	)
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsManager = metrics.NewManager("powerscale", "backend", registry)
	}

	hub := sessionws.NewHub()
	go hub.Run()
	defer hub.Stop()

	app := fiber.New(fiber.Config{
		AppName:   "PowerScale",
		BodyLimit: 6 * 1024 * 1024,
	})

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(middleware.RequestMetrics(metricsManager))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, routes.Dependencies{
		DB:       database.DB,
		Redis:    redisClient,
		Metrics:  metricsManager,
		Registry: registry,
		Hub:      hub,
	}); err != nil {
		log.Fatalf("failed to register routes: %v", err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}()

	log.WithField("port", cfg.Port).Info("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}
