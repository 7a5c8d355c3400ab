package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/jobrepo"
	"dispatch/internal/adapters/out/rediscache"
	"dispatch/internal/adapters/out/rmq"
	"dispatch/internal/adapters/out/ws"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	hub := ws.NewHub(logger)
	notifier := buildNotifier(configs, hub, logger)
	locationCache := buildLocationCache(configs)

	root := cmd.NewCompositionRoot(gormDB, notifier, locationCache, hub, logger)

	jobManager := jobs.NewJobManager(
		root.CreateAssignPendingJobCommandHandler(),
		root.CreateMarkStaleDriversOfflineCommandHandler(configs.DriverStalenessWindow),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                envOrDefault("DB_PORT", "5432"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBSslMode:             envOrDefault("DB_SSLMODE", "disable"),
		RedisURL:              os.Getenv("REDIS_URL"),
		AmqpURL:               os.Getenv("AMQP_URL"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		DriverStalenessWindow: envDurationOrDefault("DRIVER_STALENESS_WINDOW", 120*time.Second),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return parsed
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	if err := gormDB.AutoMigrate(&jobrepo.JobDTO{}, &driverrepo.DriverDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func buildNotifier(configs cmd.Config, hub *ws.Hub, logger *slog.Logger) ports.DispatchNotifier {
	notifiers := []ports.DispatchNotifier{ws.NewNotifier(hub, logger)}

	if configs.AmqpURL != "" {
		publisher, err := rmq.NewPublisher(configs.AmqpURL, logger)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		notifiers = append(notifiers, publisher)
	}
	return notify.NewComposite(notifiers...)
}

func buildLocationCache(configs cmd.Config) ports.DriverLocationCache {
	if configs.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(configs.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	return rediscache.NewLocationCache(redis.NewClient(opts))
}

func startWebServer(root *cmd.CompositionRoot, configs cmd.Config) {
	if configs.JWTSecret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}

	e := echo.New()
	e.Use(middleware.Recover())

	tokenManager := httpadapter.NewTokenManager(configs.JWTSecret)
	server := root.CreateHTTPServer(tokenManager)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
