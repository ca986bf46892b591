package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/reservation"
)

const operation = "cancel"

// UseCase use case для отмены бронирования игроком
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	window          time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// window - сколько времени после создания брони её можно отменить.
func NewUseCase(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	window time.Duration,
	logger Logger,
) *UseCase {
	if window <= 0 {
		window = domain.DefaultCancellationWindow
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		window:          window,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case отмены бронирования.
// Бронь переходит в статус cancelled; слот освобождается при следующем расчёте сетки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("CancelReservation: reservation=%s, requester=%d", req.ReservationID, req.RequesterID)

	result, err := uc.execute(ctx, req)
	uc.metrics.ObserveSlotOperation(operation, outcomeOf(err))
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Reservation

	// 3. Читаем бронь (в postgres строка блокируется FOR UPDATE) и отменяем её
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 3.1. Отменить может только автор брони
		if res.PlayerID != req.RequesterID {
			return ErrNotOwnerOfBooking
		}

		// 3.2. Повторная отмена
		if !res.IsActive() {
			return ErrAlreadyCancelled
		}

		// 3.3. Проверяем окно отмены
		if !res.IsWithinCancellationWindow(now, uc.window) {
			return fmt.Errorf("%w: created at %s, window %s", ErrWindowExpired, res.CreatedAt.Format(time.RFC3339), uc.window)
		}

		// 3.4. Отменяем
		if err := uc.reservationRepo.Cancel(txCtx, res.ID, now); err != nil {
			if errors.Is(err, reservationRepo.ErrNotActive) {
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
		}

		res.Status = domain.ReservationCancelled
		res.CancelledAt = &now
		result = res
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CancelReservation: reservation=%s: %v", req.ReservationID, err)
		} else {
			uc.logger.Warn("CancelReservation: reservation=%s rejected: %v", req.ReservationID, err)
		}
		return nil, err
	}

	uc.logger.Info("CancelReservation: successfully cancelled reservation id=%s", result.ID)

	// 4. Уведомление после фиксации
	event := domain.NewReservationEvent(domain.EventReservationCancelled, result, now)
	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Warn("CancelReservation: failed to publish %s for reservation id=%s: %v", event.Type, result.ID, err)
	}

	return result, nil
}

// outcomeOf метка результата операции для метрик
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}
