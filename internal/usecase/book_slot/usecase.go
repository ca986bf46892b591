package book_slot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	blockRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/block"
	reservationRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/reservation"
	courtClient "github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
)

const operation = "book"

// UseCase use case для бронирования слота
type UseCase struct {
	reservationRepo ReservationRepository
	blockRepo       BlockRepository
	slotLocker      SlotLocker
	courts          CourtDirectory
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	blockRepo BlockRepository,
	slotLocker SlotLocker,
	courts CourtDirectory,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		blockRepo:       blockRepo,
		slotLocker:      slotLocker,
		courts:          courts,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case бронирования слота.
// Проверка и вставка идут в одной транзакции под блокировкой слота,
// поэтому на один слот не может появиться двух активных броней.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("BookSlot: player=%d, court=%d, date=%s, slot=%s-%s",
		req.PlayerID, req.CourtID, req.Date.Format(domain.DateFormat), req.Start, req.End)

	result, err := uc.execute(ctx, req)
	uc.metrics.ObserveSlotOperation(operation, outcomeOf(err))
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем корт
	court, err := uc.courts.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtClient.ErrCourtNotFound) {
			uc.logger.Warn("BookSlot: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("BookSlot: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 4. Проверяем слот по сетке корта и текущему времени
	if err := validateSlot(court, req, now, uc.location); err != nil {
		uc.logger.Warn("BookSlot: %v", err)
		return nil, err
	}

	// 5. Проверяем, что корт одобрен
	if !court.IsApproved {
		uc.logger.Warn("BookSlot: court id=%d is not approved", req.CourtID)
		return nil, ErrCourtNotApproved
	}

	key := domain.SlotKey{CourtID: req.CourtID, Date: req.Date, Start: req.Start, End: req.End}

	var result *domain.Reservation

	// 6. Проверка и вставка в одной транзакции под блокировкой слота
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 6.1. Блокируем слот до конца транзакции
		if err := uc.slotLocker.LockSlot(txCtx, key); err != nil {
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 6.2. Слот не должен быть забронирован
		if _, err := uc.reservationRepo.GetActiveBySlot(txCtx, key); err == nil {
			return fmt.Errorf("%w: %s is booked", ErrSlotConflict, key)
		} else if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return fmt.Errorf("%w: failed to check reservation: %v", ErrInternal, err)
		}

		// 6.3. Слот не должен быть заблокирован
		if _, err := uc.blockRepo.GetActiveBySlot(txCtx, key); err == nil {
			return fmt.Errorf("%w: %s is blocked", ErrSlotConflict, key)
		} else if !errors.Is(err, blockRepo.ErrBlockNotFound) {
			return fmt.Errorf("%w: failed to check block: %v", ErrInternal, err)
		}

		// 6.4. Создаем бронь с фиксацией цены
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			CourtID:      req.CourtID,
			PlayerID:     req.PlayerID,
			Date:         req.Date,
			Start:        req.Start,
			End:          req.End,
			Status:       domain.ReservationBooked,
			PricePerHour: court.PricePerHour,
			Amount:       amountFor(court),
			CreatedAt:    now,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				return fmt.Errorf("%w: %s is booked", ErrSlotConflict, key)
			}
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Warn("BookSlot: conflict: %v", err)
		} else {
			uc.logger.Error("BookSlot: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("BookSlot: successfully created reservation id=%s", result.ID)

	// 7. Уведомление после фиксации, ошибка не отменяет бронь
	event := domain.NewReservationEvent(domain.EventReservationBooked, result, now)
	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Warn("BookSlot: failed to publish %s for reservation id=%s: %v", event.Type, result.ID, err)
	}

	return result, nil
}

// amountFor стоимость одного слота, округленная до копеек
func amountFor(court *domain.Court) float64 {
	return math.Round(court.PricePerHour*court.SlotHours()*100) / 100
}

// outcomeOf метка результата операции для метрик
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrSlotConflict):
		return "conflict"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}
