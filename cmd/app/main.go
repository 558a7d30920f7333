package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk/api"
	"orderdesk/cmd"
	httpin "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/adapters/in/ws"
	"orderdesk/internal/adapters/out/broadcast"
	"orderdesk/internal/adapters/out/postgres"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := getConfigs()
	log := newLogger(configs.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustGormOpen(configs, log)
	if err := postgres.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	hub := broadcast.NewHub(log)
	go hub.Run(ctx)

	var redisClient *redis.Client
	if configs.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: configs.RedisAddress})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis is unreachable")
		}
		defer func() {
			_ = redisClient.Close()
		}()
	}
	publisher := startPublisher(ctx, configs, gormDB, redisClient, hub, log)

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	var locker jobs.Locker
	if redisClient != nil {
		locker = jobs.NewRedisLocker(redisClient)
	}
	jobManager := jobs.NewJobManager(app.CreateAssemblyOpeningJob(locker))
	if err = jobManager.StartAll(); err != nil {
		log.WithError(err).Fatal("failed to start jobs")
	}
	defer jobManager.StopAll()

	startWebServer(ctx, &app, hub, configs.HTTPPort, log)
}

func getConfigs() cmd.Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Fatal("error loading .env file")
	}

	return cmd.Config{
		HTTPPort:            os.Getenv("HTTP_PORT"),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              os.Getenv("DB_PORT"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBSslMode:           os.Getenv("DB_SSLMODE"),
		OperatingTimezone:   os.Getenv("OPERATING_TIMEZONE"),
		SyncMode:            os.Getenv("SYNC_MODE"),
		BulkChunkSize:       os.Getenv("BULK_CHUNK_SIZE"),
		BroadcastFanout:     os.Getenv("BROADCAST_FANOUT"),
		RedisAddress:        os.Getenv("REDIS_ADDRESS"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TrustOperatorHeader: os.Getenv("TRUST_OPERATOR_HEADER"),
		AssemblyOpeningCron: os.Getenv("ASSEMBLY_OPENING_CRON"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else if level != "" {
		log.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
	}
	return log
}

func mustGormOpen(configs cmd.Config, log logrus.FieldLogger) *gorm.DB {
	db, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("connection to postgres failed")
	}
	if err = db.Use(otelgorm.NewPlugin()); err != nil {
		log.WithError(err).Fatal("failed to install gorm tracing")
	}
	return db
}

// startPublisher picks the broadcast path from BROADCAST_FANOUT and starts its
// receiving side. Every instance delivers to its own websocket sessions.
func startPublisher(
	ctx context.Context,
	configs cmd.Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	hub *broadcast.Hub,
	log logrus.FieldLogger,
) ports.Publisher {
	type fanout interface {
		ports.Publisher
		Run(ctx context.Context) error
	}

	var f fanout
	switch configs.BroadcastFanout {
	case "", broadcast.FanoutLocal:
		return broadcast.NewLocalPublisher(hub)
	case broadcast.FanoutRedis:
		if redisClient == nil {
			log.Fatal("BROADCAST_FANOUT=redis requires REDIS_ADDRESS")
		}
		f = broadcast.NewRedisFanout(redisClient, hub, log)
	case broadcast.FanoutPostgres:
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.WithError(err).Fatal("failed to get sql.DB")
		}
		f = broadcast.NewPostgresFanout(sqlDB, configs.DSN(), hub, log)
	default:
		log.WithField("fanout", configs.BroadcastFanout).Fatal("unknown BROADCAST_FANOUT")
	}

	go func() {
		if err := f.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("broadcast fan-out stopped")
		}
	}()
	return f
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, hub *broadcast.Hub, port string, log logrus.FieldLogger) {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonlog.WARN)
	e.Validator = httpin.NewRequestValidator()
	e.HTTPErrorHandler = httpin.ErrorHandler(log)
	e.Use(middleware.Recover())
	e.Use(httpin.RequestLogger(log))

	doc, err := api.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("openapi document is invalid")
	}
	if err = api.RegisterSwagger(doc); err != nil {
		log.WithError(err).Fatal("failed to register swagger document")
	}
	openapiValidator, err := httpin.OpenAPIRequestValidator(doc)
	if err != nil {
		log.WithError(err).Fatal("failed to build request validator")
	}

	e.GET("/health", httpin.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws/assembly/:date", ws.NewHandler(hub, log).ServeAssembly)

	v1 := e.Group("/api/v1", httpin.OperatorIdentity(app.OperatorConfig()), openapiValidator)
	httpin.NewServer(app.HTTPHandlers(), log).Register(v1)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}
}
