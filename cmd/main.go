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

	archiveBookingHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/archive_booking"
	closeMembershipHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/close_membership"
	createBookingHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/create_booking"
	createRecurringGroupHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/create_recurring_group"
	getBookingHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/get_booking"
	getConflictsHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/get_conflicts"
	getCustomerBookingsHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/get_customer_bookings"
	getDayScheduleHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/get_day_schedule"
	getGroupBookingsHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/get_group_bookings"
	getStaffBookingsHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/get_staff_bookings"
	openMembershipHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/open_membership"
	transitionStatusHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/transition_status"
	updateNotesHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/update_notes"
	updatePaymentStatusHandler "github.com/dmrtv/BSC-SchedulingService/internal/api/handlers/update_payment_status"
	"github.com/dmrtv/BSC-SchedulingService/internal/api/middleware"
	"github.com/dmrtv/BSC-SchedulingService/internal/api/realtime"
	"github.com/dmrtv/BSC-SchedulingService/internal/config"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/changefeed"
	bookingRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/booking"
	membershipRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/membership"
	groupRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/recurringgroup"
	teamServiceClient "github.com/dmrtv/BSC-SchedulingService/internal/integrations/teamservice"
	bookingsService "github.com/dmrtv/BSC-SchedulingService/internal/service/bookings"
	conflictsService "github.com/dmrtv/BSC-SchedulingService/internal/service/conflicts"
	membershipService "github.com/dmrtv/BSC-SchedulingService/internal/service/membership"
	syncService "github.com/dmrtv/BSC-SchedulingService/internal/service/sync"
	createBookingUC "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_booking"
	createRecurringGroupUC "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_recurring_group"
	getDayScheduleUC "github.com/dmrtv/BSC-SchedulingService/internal/usecase/get_day_schedule"
	transitionStatusUC "github.com/dmrtv/BSC-SchedulingService/internal/usecase/transition_status"
	"github.com/dmrtv/BSC-SchedulingService/pkg/dbmetrics"
	"github.com/dmrtv/BSC-SchedulingService/pkg/logger"
	"github.com/dmrtv/BSC-SchedulingService/pkg/metrics"
	"github.com/dmrtv/BSC-SchedulingService/pkg/simpletxmanager"
	"github.com/dmrtv/BSC-SchedulingService/pkg/txmanager"
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

	log.Info("Starting BSC-SchedulingService...")
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

	// Инициализируем интеграционного клиента
	teamClient := teamServiceClient.NewClient(
		cfg.TeamService.URL,
		time.Duration(cfg.TeamService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (TeamService=%s timeout=%ds)",
		cfg.TeamService.URL, cfg.TeamService.Timeout)

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		membershipRepository *membershipRepo.Repository
		groupRepository      *groupRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		membershipRepository = membershipRepo.NewRepository(wrappedDB)
		groupRepository = groupRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		membershipRepository = membershipRepo.NewRepository(db)
		groupRepository = groupRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы и координатор оптимистичных мутаций
	membershipSvc := membershipService.NewService(membershipRepository, log)
	conflictSvc := conflictsService.New(bookingRepository, log)

	cacheStore := cache.New()
	syncCoordinator := syncService.NewCoordinator(cacheStore, membershipSvc, metricsCollector, log)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		groupRepository,
		membershipSvc,
		syncCoordinator,
		log,
	)

	// Инициализируем ленту изменений и реконсилятор
	feed, err := changefeed.NewListener(cfg.Database.DSN(), cfg.Realtime.Channel, log)
	if err != nil {
		log.Fatal("Failed to start change feed listener: %v", err)
	}
	defer feed.Close()

	reconciler := syncService.NewReconciler(
		cacheStore,
		membershipSvc,
		feed.Events(),
		metricsCollector,
		log,
		time.Duration(cfg.Realtime.UpdateDebounceMs)*time.Millisecond,
		time.Duration(cfg.Realtime.InsertDebounceMs)*time.Millisecond,
	)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	go func() {
		if err := feed.Run(runCtx); err != nil && runCtx.Err() == nil {
			log.Error("Change feed listener stopped: %v", err)
		}
	}()
	go func() {
		if err := reconciler.Run(runCtx); err != nil && runCtx.Err() == nil {
			log.Error("Reconciler stopped: %v", err)
		}
	}()
	log.Info("Change feed listener started on channel %q", cfg.Realtime.Channel)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		conflictSvc,
		teamClient,
		txMgr,
		log,
	)
	createRecurringGroupUseCase := createRecurringGroupUC.NewUseCase(
		bookingRepository,
		groupRepository,
		conflictSvc,
		teamClient,
		txMgr,
		log,
	)
	transitionStatusUseCase := transitionStatusUC.NewUseCase(bookingRepository, txMgr, syncCoordinator, log)
	getDayScheduleUseCase := getDayScheduleUC.NewUseCase(bookingRepository, conflictSvc, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createRecurringGroup := createRecurringGroupHandler.NewHandler(createRecurringGroupUseCase, log)
	transitionStatus := transitionStatusHandler.NewHandler(transitionStatusUseCase, log)
	getDaySchedule := getDayScheduleHandler.NewHandler(getDayScheduleUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getGroupBookings := getGroupBookingsHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	updateNotes := updateNotesHandler.NewHandler(bookingSvc, log)
	archiveBooking := archiveBookingHandler.NewHandler(bookingSvc, log)
	getConflicts := getConflictsHandler.NewHandler(conflictSvc, log)
	openMembership := openMembershipHandler.NewHandler(membershipSvc, log)
	closeMembership := closeMembershipHandler.NewHandler(membershipSvc, log)
	wsHub := realtime.NewHub(reconciler, log)

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

	// Дневное расписание ресурса с колоночной раскладкой
	api.HandleFunc("/schedule/{resourceKind}/{resourceId}/{date}",
		getDaySchedule.Handle).Methods(http.MethodGet)

	// Проверка интервала на пересечения
	api.HandleFunc("/conflicts", getConflicts.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Customer-ID / X-Staff-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", archiveBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/status", transitionStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/notes", updateNotes.Handle).Methods(http.MethodPatch)

	// --- Повторяющиеся группы ---
	protected.HandleFunc("/recurring-groups", createRecurringGroup.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-groups/{groupId}/bookings", getGroupBookings.Handle).Methods(http.MethodGet)

	// --- Расписания ---
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)

	// --- Членство в командах ---
	protected.HandleFunc("/teams/{teamId}/members/{staffId}", openMembership.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/teams/{teamId}/members/{staffId}", closeMembership.Handle).Methods(http.MethodDelete)

	// --- Push-уведомления об изменениях ---
	protected.HandleFunc("/ws", wsHub.Handle).Methods(http.MethodGet)

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

	// Останавливаем ленту изменений и реконсилятор
	cancelRun()

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
