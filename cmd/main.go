package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	getEmployeeAppointmentsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_employee_appointments"
	getWorkingWindowsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_working_windows"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	windowsCache "github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/windows"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/events"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
	createAppointmentUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	getWorkingWindowsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_working_windows"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tenantdb"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tracing"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from config.toml (tenants=%d)", len(cfg.Tenants))

	ctx := context.Background()

	// Метрики usecase'ов: без Prometheus пишем в Nop
	type useCaseMetrics interface {
		RecordSlotsGenerated(tenant string, n int)
		RecordBookingConflict(tenant string)
	}
	var (
		metricsCollector *metrics.Metrics
		ucMetrics        useCaseMetrics = metrics.Nop{}
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		ucMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}

	// Пулы соединений арендаторов
	dbTenants := make([]tenantdb.Tenant, 0, len(cfg.Tenants))
	settings := make([]tenant.Settings, 0, len(cfg.Tenants))
	for _, t := range cfg.Tenants {
		loc, err := time.LoadLocation(t.Timezone)
		if err != nil {
			log.Fatal("Invalid timezone for tenant=%s: %v", t.ID, err)
		}
		dbTenants = append(dbTenants, tenantdb.Tenant{ID: t.ID, DSN: cfg.TenantDSN(t)})
		settings = append(settings, tenant.Settings{ID: t.ID, Location: loc})
	}

	pools, err := tenantdb.Open(ctx, dbTenants, tenantdb.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetimeDuration(),
	}, metricsCollector)
	if err != nil {
		log.Fatal("Failed to connect to tenant databases: %v", err)
	}
	log.Info("Successfully connected to tenant databases: %v", pools.IDs())

	// Кеш рабочих окон
	var (
		redisClient *redis.Client
		cache       *windowsCache.Cache
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		cache = windowsCache.New(redisClient, cfg.Redis.TTLDuration())
		log.Info("Working windows cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Публикация событий о записях
	publisher := events.NewPublisher(events.Config{
		Brokers:       cfg.Kafka.Brokers,
		BookedTopic:   cfg.Kafka.BookedTopic,
		CanceledTopic: cfg.Kafka.CanceledTopic,
		BatchTimeout:  time.Duration(cfg.Kafka.BatchTimeout) * time.Millisecond,
	}, log)

	breakPolicy, err := availability.ParseBreakPolicy(cfg.Availability.PeriodBreakPolicy)
	if err != nil {
		log.Fatal("Invalid availability config: %v", err)
	}

	// Движки арендаторов
	engines, err := tenant.Build(settings, tenant.Deps{
		Pools:       pools,
		Cache:       cache,
		Metrics:     metricsCollector,
		Publisher:   publisher,
		Logger:      log,
		BreakPolicy: breakPolicy,
		Concurrency: cfg.Availability.Concurrency,
	})
	if err != nil {
		log.Fatal("Failed to build tenant engines: %v", err)
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		engines,
		cfg.Availability.MaxRangeDays,
		ucMetrics,
		log,
	)
	getWorkingWindowsUseCase := getWorkingWindowsUC.NewUseCase(
		engines,
		cfg.Availability.MaxRangeDays,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		engines,
		ucMetrics,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getWorkingWindows := getWorkingWindowsHandler.NewHandler(getWorkingWindowsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(engines, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(engines, log)
	getEmployeeAppointments := getEmployeeAppointmentsHandler.NewHandler(engines, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1/tenants/{tenantId}").Subrouter()
	api.Use(middleware.Tenant(engines))

	// --- Доступность ---
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/working-windows", getWorkingWindows.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/employees/{employeeId}/appointments", getEmployeeAppointments.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Порядок: сначала перестаем принимать запросы, затем сбрасываем события и закрываем пулы
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}
	if err := pools.Close(); err != nil {
		log.Error("Failed to close tenant databases: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server stopped gracefully")
}
