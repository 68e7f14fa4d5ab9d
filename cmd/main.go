package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/bookitgy/booking-engine/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/bookitgy/booking-engine/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/bookitgy/booking-engine/internal/api/handlers/create_booking"
	createServiceHandler "github.com/bookitgy/booking-engine/internal/api/handlers/create_service"
	deleteServiceHandler "github.com/bookitgy/booking-engine/internal/api/handlers/delete_service"
	getAvailabilityHandler "github.com/bookitgy/booking-engine/internal/api/handlers/get_availability"
	getBookingHandler "github.com/bookitgy/booking-engine/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/bookitgy/booking-engine/internal/api/handlers/get_customer_bookings"
	getProviderBookingsHandler "github.com/bookitgy/booking-engine/internal/api/handlers/get_provider_bookings"
	getWorkingHoursHandler "github.com/bookitgy/booking-engine/internal/api/handlers/get_working_hours"
	listServicesHandler "github.com/bookitgy/booking-engine/internal/api/handlers/list_services"
	noShowBookingHandler "github.com/bookitgy/booking-engine/internal/api/handlers/no_show_booking"
	updateServiceHandler "github.com/bookitgy/booking-engine/internal/api/handlers/update_service"
	updateWorkingHoursHandler "github.com/bookitgy/booking-engine/internal/api/handlers/update_working_hours"
	"github.com/bookitgy/booking-engine/internal/api/middleware"
	"github.com/bookitgy/booking-engine/internal/config"
	bookingRepo "github.com/bookitgy/booking-engine/internal/infra/storage/booking"
	catalogRepo "github.com/bookitgy/booking-engine/internal/infra/storage/catalog"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	notifierClient "github.com/bookitgy/booking-engine/internal/integrations/notifier"
	bookingsService "github.com/bookitgy/booking-engine/internal/service/bookings"
	catalogService "github.com/bookitgy/booking-engine/internal/service/catalog"
	scheduleService "github.com/bookitgy/booking-engine/internal/service/schedule"
	claimSlotUC "github.com/bookitgy/booking-engine/internal/usecase/claim_slot"
	getAvailabilityUC "github.com/bookitgy/booking-engine/internal/usecase/get_availability"
	"github.com/bookitgy/booking-engine/pkg/dbmetrics"
	"github.com/bookitgy/booking-engine/pkg/logger"
	"github.com/bookitgy/booking-engine/pkg/metrics"
	"github.com/bookitgy/booking-engine/pkg/simpletxmanager"
	"github.com/bookitgy/booking-engine/pkg/txmanager"
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

	log.Info("Starting booking-engine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент сервиса уведомлений
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		cfg.Notifier.Enabled,
		log,
	)
	if cfg.Notifier.Enabled {
		log.Info("Notifier client initialized (url=%s timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		catalogRepository  *catalogRepo.Repository
	)

	// Интерфейс транзакционного менеджера для usecase/service слоёв
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &getAvailabilityUC.RealTimeProvider{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		scheduleRepository,
		notifier,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		log,
	)
	catalogSvc := catalogService.NewService(
		catalogRepository,
		scheduleRepository,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		timeProvider,
		getAvailabilityUC.Settings{
			GranularityMinutes: cfg.Booking.SlotGranularityMinutes,
			MinLeadTimeMinutes: cfg.Booking.MinLeadTimeMinutes,
			DefaultRangeDays:   cfg.Booking.DefaultRangeDays,
			MaxRangeDays:       cfg.Booking.MaxRangeDays,
			DefaultTimezone:    cfg.Booking.DefaultTimezone,
		},
		log,
	)

	claimSlotUseCase := claimSlotUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		txMgr,
		notifier,
		timeProvider,
		claimSlotUC.Settings{
			GranularityMinutes: cfg.Booking.SlotGranularityMinutes,
			MinLeadTimeMinutes: cfg.Booking.MinLeadTimeMinutes,
			ClaimTimeout:       time.Duration(cfg.Server.ClaimTimeoutSeconds) * time.Second,
			DefaultTimezone:    cfg.Booking.DefaultTimezone,
		},
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(claimSlotUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	noShowBooking := noShowBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(scheduleSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	deleteService := deleteServiceHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты провайдера для услуги
	api.HandleFunc("/providers/{providerId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Каталог услуг провайдера
	api.HandleFunc("/providers/{providerId}/services",
		listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Захват слота
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Завершение визита
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Отметка неявки клиента
	protected.HandleFunc("/bookings/{bookingId}/no-show", noShowBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/me/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет провайдера ---
	// Книга записи провайдера
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// Недельное расписание
	protected.HandleFunc("/providers/me/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/me/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)

	// Управление каталогом услуг
	protected.HandleFunc("/providers/me/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/me/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/providers/me/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
