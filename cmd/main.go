package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-CourtScheduler/internal/api"
	blockSlotHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/block_slot"
	bookSlotHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/book_slot"
	cancelReservationHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/cancel_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_availability"
	getCourtReservationsHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_court_reservations"
	getPlayerReservationsHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_player_reservations"
	getReservationHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/get_reservation"
	unblockSlotHandler "github.com/m04kA/SMC-CourtScheduler/internal/api/handlers/unblock_slot"
	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-CourtScheduler/internal/config"
	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	blockRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/block"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/migrations"
	reservationRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/slotlock"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/internal/integrations/notifier"
	reservationsService "github.com/m04kA/SMC-CourtScheduler/internal/service/reservations"
	blockSlotUC "github.com/m04kA/SMC-CourtScheduler/internal/usecase/block_slot"
	bookSlotUC "github.com/m04kA/SMC-CourtScheduler/internal/usecase/book_slot"
	cancelReservationUC "github.com/m04kA/SMC-CourtScheduler/internal/usecase/cancel_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-CourtScheduler/internal/usecase/get_availability"
	unblockSlotUC "github.com/m04kA/SMC-CourtScheduler/internal/usecase/unblock_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtScheduler/pkg/logger"
	"github.com/m04kA/SMC-CourtScheduler/pkg/metrics"
	"github.com/m04kA/SMC-CourtScheduler/pkg/txmanager"
)

// reservationRepository все операции с бронированиями, нужные use cases и сервису
type reservationRepository interface {
	bookSlotUC.ReservationRepository
	blockSlotUC.ReservationRepository
	cancelReservationUC.ReservationRepository
	getAvailabilityUC.ReservationRepository
	reservationsService.ReservationRepository
}

// blockRepository все операции с блокировками
type blockRepository interface {
	bookSlotUC.BlockRepository
	blockSlotUC.BlockRepository
	unblockSlotUC.BlockRepository
	getAvailabilityUC.BlockRepository
}

// storage набор репозиториев выбранного драйвера
type storage struct {
	reservations reservationRepository
	blocks       blockRepository
	slotLocks    bookSlotUC.SlotLocker
	txManager    bookSlotUC.TransactionManager
	close        func() error
}

// courtDirectory каталог кортов (HTTP или файл)
type courtDirectory interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// eventPublisher публикация событий расписания
type eventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-CourtScheduler...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid timezone: %v", err)
	}

	// Каталог кортов
	courts, err := openCourtDirectory(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize court directory: %v", err)
	}

	// Публикация событий
	var publisher eventPublisher = notifier.Noop{}

	if cfg.Notifications.Enabled {
		amqpPublisher, err := notifier.NewPublisher(
			cfg.Notifications.AMQPURL,
			cfg.Notifications.Exchange,
			time.Duration(cfg.Notifications.PublishTimeout)*time.Second,
		)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Event publishing enabled (exchange=%s)", cfg.Notifications.Exchange)
	}

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(store.reservations, courts, location, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		store.reservations,
		store.blocks,
		courts,
		cfg.Scheduling.MaxRangeDays,
		log,
	)

	bookSlotUseCase := bookSlotUC.NewUseCase(
		store.reservations,
		store.blocks,
		store.slotLocks,
		courts,
		store.txManager,
		publisher,
		metricsCollector,
		location,
		log,
	)

	blockSlotUseCase := blockSlotUC.NewUseCase(
		store.reservations,
		store.blocks,
		store.slotLocks,
		courts,
		store.txManager,
		publisher,
		metricsCollector,
		location,
		log,
	)

	unblockSlotUseCase := unblockSlotUC.NewUseCase(
		store.blocks,
		store.slotLocks,
		courts,
		store.txManager,
		publisher,
		metricsCollector,
		log,
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		store.reservations,
		store.txManager,
		publisher,
		metricsCollector,
		cfg.Scheduling.CancellationWindow(),
		log,
	)

	// Инициализируем handlers
	handlers := api.Handlers{
		GetAvailability:       getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log).Handle,
		BookSlot:              bookSlotHandler.NewHandler(bookSlotUseCase, log).Handle,
		BlockSlot:             blockSlotHandler.NewHandler(blockSlotUseCase, log).Handle,
		UnblockSlot:           unblockSlotHandler.NewHandler(unblockSlotUseCase, log).Handle,
		CancelReservation:     cancelReservationHandler.NewHandler(cancelReservationUseCase, log).Handle,
		GetReservation:        getReservationHandler.NewHandler(reservationsSvc, log).Handle,
		GetPlayerReservations: getPlayerReservationsHandler.NewHandler(reservationsSvc, log).Handle,
		GetCourtReservations:  getCourtReservationsHandler.NewHandler(reservationsSvc, log).Handle,
	}

	routerCfg := api.RouterConfig{
		Auth:        middleware.NewAuth(cfg.Auth.JWTSecret, log),
		MetricsPath: cfg.Metrics.Path,
	}
	if metricsCollector != nil {
		routerCfg.Metrics = metricsCollector
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r := api.NewRouter(handlers, routerCfg)

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
	close(stopMetricsCh)

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

// openStorage подключает PostgreSQL или in-memory хранилище
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Warn("Using in-memory storage, data will be lost on restart")
		return &storage{
			reservations: store.Reservations(),
			blocks:       store.Blocks(),
			slotLocks:    store.SlotLocks(),
			txManager:    store.TxManager(),
			close:        func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		version, dirty, err := migrations.Version(db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("read schema version: %w", err)
		}
		log.Info("Migrations applied (version=%d, dirty=%t)", version, dirty)
	}

	// Обёртка снимает метрики запросов; без метрик просто проксирует вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)

	return &storage{
		reservations: reservationRepo.NewRepository(wrappedDB),
		blocks:       blockRepo.NewRepository(wrappedDB),
		slotLocks:    slotlock.NewRepository(wrappedDB),
		txManager:    txmanager.NewTransactionManager(wrappedDB),
		close:        db.Close,
	}, nil
}

// openCourtDirectory подключает каталог кортов
func openCourtDirectory(cfg *config.Config, log *logger.Logger) (courtDirectory, error) {
	if cfg.CourtDirectory.Source == config.CourtSourceFile {
		static, err := courtdirectory.LoadFile(cfg.CourtDirectory.File)
		if err != nil {
			return nil, err
		}
		log.Info("Court directory loaded from %s (%d courts)", cfg.CourtDirectory.File, static.Len())
		return static, nil
	}

	timeout := time.Duration(cfg.CourtDirectory.Timeout) * time.Second
	log.Info("Court directory client initialized (url=%s, timeout=%s)", cfg.CourtDirectory.URL, timeout)
	return courtdirectory.NewClient(cfg.CourtDirectory.URL, timeout, log), nil
}
