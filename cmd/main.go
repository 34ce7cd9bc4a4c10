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

	cancelBookingHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/create_booking"
	createPaymentOrderHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/create_payment_order"
	createSlotsHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/create_slots"
	getBookingHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/get_booking"
	getFacilitySlotsHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/get_facility_slots"
	getPartnerBookingsHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/get_partner_bookings"
	getUserBookingsHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/get_user_bookings"
	verifyPaymentHandler "github.com/turfbook/TurfBookingService/internal/api/handlers/verify_payment"
	"github.com/turfbook/TurfBookingService/internal/api/middleware"
	"github.com/turfbook/TurfBookingService/internal/config"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	slotRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/slot"
	transactionRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/transaction"
	paymentGatewayClient "github.com/turfbook/TurfBookingService/internal/integrations/paymentgateway"
	venueServiceClient "github.com/turfbook/TurfBookingService/internal/integrations/venueservice"
	bookingsService "github.com/turfbook/TurfBookingService/internal/service/bookings"
	slotsService "github.com/turfbook/TurfBookingService/internal/service/slots"
	applyPaymentOutcomeUC "github.com/turfbook/TurfBookingService/internal/usecase/apply_payment_outcome"
	cancelBookingUC "github.com/turfbook/TurfBookingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/turfbook/TurfBookingService/internal/usecase/create_booking"
	createPaymentOrderUC "github.com/turfbook/TurfBookingService/internal/usecase/create_payment_order"
	verifyPaymentUC "github.com/turfbook/TurfBookingService/internal/usecase/verify_payment"
	"github.com/turfbook/TurfBookingService/pkg/dbmetrics"
	"github.com/turfbook/TurfBookingService/pkg/logger"
	"github.com/turfbook/TurfBookingService/pkg/metrics"
	"github.com/turfbook/TurfBookingService/pkg/simpletxmanager"
	"github.com/turfbook/TurfBookingService/pkg/txmanager"
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

	log.Info("Starting TurfBookingService...")
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

	// Инициализируем интеграционных клиентов
	venueClient := venueServiceClient.NewClient(
		cfg.VenueService.URL,
		time.Duration(cfg.VenueService.Timeout)*time.Second,
		log,
	)
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.BaseURL,
		cfg.PaymentGateway.KeyID,
		cfg.PaymentGateway.KeySecret,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (VenueService=%s timeout=%ds, PaymentGateway=%s timeout=%ds)",
		cfg.VenueService.URL, cfg.VenueService.Timeout, cfg.PaymentGateway.BaseURL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository        *slotRepo.Repository
		bookingRepository     *bookingRepo.Repository
		transactionRepository *transactionRepo.Repository
	)

	// Интерфейс transaction manager, объединяющий нужды usecases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		transactionRepository = transactionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		transactionRepository = transactionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		transactionRepository,
		log,
	)
	slotSvc := slotsService.NewService(
		slotRepository,
		venueClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		venueClient,
		txMgr,
		log,
	)
	createPaymentOrderUseCase := createPaymentOrderUC.NewUseCase(
		bookingRepository,
		transactionRepository,
		gatewayClient,
		cfg.PaymentGateway.Currency,
		log,
	)
	applyPaymentOutcomeUseCase := applyPaymentOutcomeUC.NewUseCase(
		bookingRepository,
		slotRepository,
		transactionRepository,
		txMgr,
		log,
	)
	verifyPaymentUseCase := verifyPaymentUC.NewUseCase(
		transactionRepository,
		gatewayClient,
		applyPaymentOutcomeUseCase,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createPaymentOrder := createPaymentOrderHandler.NewHandler(createPaymentOrderUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(verifyPaymentUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getPartnerBookings := getPartnerBookingsHandler.NewHandler(bookingSvc, log)
	getFacilitySlots := getFacilitySlotsHandler.NewHandler(slotSvc, log)
	createSlots := createSlotsHandler.NewHandler(slotSvc, log)

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

	// Расписание площадки на дату
	api.HandleFunc("/facilities/{facilityId}/slots", getFacilitySlots.Handle).Methods(http.MethodGet)

	// Callback платёжного шлюза (аутентификация подписью в теле)
	api.HandleFunc("/payments/verify", verifyPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (резервирование слотов)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Создание платёжного заказа у шлюза
	protected.HandleFunc("/bookings/{bookingId}/payment-order", createPaymentOrder.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление площадками (для партнёров) ---
	// Список бронирований партнёра
	protected.HandleFunc("/partners/{partnerId}/bookings", getPartnerBookings.Handle).Methods(http.MethodGet)

	// Массовое создание слотов расписания
	protected.HandleFunc("/facilities/{facilityId}/slots", createSlots.Handle).Methods(http.MethodPost)

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
