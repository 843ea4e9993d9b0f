package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/schoolfees/backend/internal/application/identity"
	ledgerapp "github.com/schoolfees/backend/internal/application/ledger"
	notificationapp "github.com/schoolfees/backend/internal/application/notification"
	reportapp "github.com/schoolfees/backend/internal/application/report"
	schoolapp "github.com/schoolfees/backend/internal/application/school"
	"github.com/schoolfees/backend/internal/infrastructure/auth"
	"github.com/schoolfees/backend/internal/infrastructure/cache"
	"github.com/schoolfees/backend/internal/infrastructure/config"
	"github.com/schoolfees/backend/internal/infrastructure/event"
	"github.com/schoolfees/backend/internal/infrastructure/logger"
	"github.com/schoolfees/backend/internal/infrastructure/persistence"
	"github.com/schoolfees/backend/internal/infrastructure/scheduler"
	"github.com/schoolfees/backend/internal/interfaces/http/handler"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/schoolfees/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

const maxRequestBodyBytes = 1 << 20 // 1 MiB

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting school fees backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis is optional: without it the blacklist and report cache fall back
	// to their in-memory implementations
	redisClient := connectRedis(cfg.Redis, log)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	classRepo := persistence.NewGormSchoolClassRepository(db.DB)
	historyRepo := persistence.NewGormClassHistoryRepository(db.DB)
	yearRepo := persistence.NewGormAcademicYearRepository(db.DB)
	categoryRepo := persistence.NewGormFeeCategoryRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	feeReportRepo := persistence.NewGormFeeReportRepository(db.DB)
	ledgerTxScope := persistence.NewGormLedgerTransactionScope(db.DB)
	schoolTxScope := persistence.NewGormSchoolTransactionScope(db.DB)

	// Report cache
	var reportCache cache.ReportCache
	if cfg.Cache.Enabled {
		if redisClient != nil {
			reportCache = cache.NewRedisReportCacheWithClient(redisClient, cache.WithCacheLogger(log))
		} else {
			memCache := cache.NewInMemoryReportCache(cache.WithInMemoryLogger(log))
			defer memCache.Close()
			reportCache = memCache
		}
	}
	cachedReportRepo := cache.NewCachedFeeReportRepository(feeReportRepo, reportCache, cfg.Cache, log)

	// Event bus: payment and invoice events fan out to student notifications
	// and flush the report cache
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewNotificationHandler(studentRepo, notificationRepo, log))
	if cfg.Cache.Enabled {
		eventBus.Subscribe(cache.NewLedgerCacheInvalidator(cachedReportRepo, log))
	}

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
	} else {
		log.Warn("Redis unavailable, using in-memory token blacklist")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	studentService := schoolapp.NewStudentService(studentRepo, historyRepo, classRepo, yearRepo, invoiceRepo, schoolTxScope, log)
	userService := identityapp.NewUserService(userRepo, studentService, jwtService, blacklist, log)
	yearService := schoolapp.NewAcademicYearService(yearRepo, schoolTxScope, log)
	classService := schoolapp.NewClassService(classRepo, historyRepo, log)
	categoryService := schoolapp.NewFeeCategoryService(categoryRepo, log)
	invoiceService := ledgerapp.NewInvoiceService(ledgerTxScope, invoiceRepo, studentRepo, yearRepo, categoryRepo, historyRepo, eventBus, log)
	paymentService := ledgerapp.NewPaymentService(ledgerTxScope, invoiceRepo, paymentRepo, eventBus, log)
	reportService := reportapp.NewReportService(cachedReportRepo, invoiceRepo, studentRepo, yearRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)

	// Daily overdue-invoice sweep
	if cfg.Sweep.Enabled {
		overdueNotifier := notificationapp.NewOverdueNotifier(invoiceRepo, studentRepo, notificationRepo, log)
		sweepScheduler := scheduler.NewSweepScheduler(cfg.Sweep, func(ctx context.Context) error {
			_, err := overdueNotifier.Sweep(ctx)
			return err
		}, log)
		if err := sweepScheduler.Start(context.Background()); err != nil {
			log.Error("Failed to start overdue sweep scheduler", zap.Error(err))
		} else {
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer stopCancel()
				if err := sweepScheduler.Stop(stopCtx); err != nil {
					log.Warn("Overdue sweep scheduler did not stop cleanly", zap.Error(err))
				}
			}()
		}
	}

	// HTTP handlers
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(db.DB, redisClient, version),
		Auth:         handler.NewAuthHandler(authService, cfg.Cookie, log),
		User:         handler.NewUserHandler(userService, log),
		AcademicYear: handler.NewAcademicYearHandler(yearService, log),
		Class:        handler.NewClassHandler(classService, log),
		FeeCategory:  handler.NewFeeCategoryHandler(categoryService, log),
		Student:      handler.NewStudentHandler(studentService, log),
		Invoice:      handler.NewInvoiceHandler(invoiceService, studentService, log),
		Payment:      handler.NewPaymentHandler(paymentService, log),
		Report:       handler.NewReportHandler(reportService, studentService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(maxRequestBodyBytes))

	router.New(handlers, authService, log).Setup(engine)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// connectRedis dials Redis and returns nil when it is unreachable
func connectRedis(cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable", zap.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info("Redis connected", zap.String("addr", client.Options().Addr))
	return client
}
