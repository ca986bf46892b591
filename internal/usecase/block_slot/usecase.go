package block_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	blockRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/block"
	reservationRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/reservation"
	courtClient "github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
)

const operation = "block"

// UseCase use case для блокировки слота владельцем корта
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

// Execute выполняет use case блокировки слота.
// Забронированный слот заблокировать нельзя, порядок операций значения не имеет:
// проверка и вставка идут под той же блокировкой слота, что и бронирование.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Block, error) {
	uc.logger.Info("BlockSlot: owner=%d, court=%d, date=%s, slot=%s-%s",
		req.OwnerID, req.CourtID, req.Date.Format(domain.DateFormat), req.Start, req.End)

	result, err := uc.execute(ctx, req)
	uc.metrics.ObserveSlotOperation(operation, outcomeOf(err))
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Block, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BlockSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем корт
	court, err := uc.courts.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtClient.ErrCourtNotFound) {
			uc.logger.Warn("BlockSlot: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("BlockSlot: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 4. Проверяем права владельца
	if !court.IsOwnedBy(req.OwnerID) {
		uc.logger.Warn("BlockSlot: user=%d does not own court id=%d", req.OwnerID, req.CourtID)
		return nil, ErrNotOwner
	}

	// 5. Проверяем слот по сетке корта и текущему времени
	if err := validateSlot(court, req, now, uc.location); err != nil {
		uc.logger.Warn("BlockSlot: %v", err)
		return nil, err
	}

	key := domain.SlotKey{CourtID: req.CourtID, Date: req.Date, Start: req.Start, End: req.End}

	var result *domain.Block

	// 6. Проверка и вставка в одной транзакции под блокировкой слота
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.slotLocker.LockSlot(txCtx, key); err != nil {
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 6.1. Забронированный слот заблокировать нельзя
		if _, err := uc.reservationRepo.GetActiveBySlot(txCtx, key); err == nil {
			return fmt.Errorf("%w: %s is booked", ErrSlotConflict, key)
		} else if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return fmt.Errorf("%w: failed to check reservation: %v", ErrInternal, err)
		}

		// 6.2. Повторная блокировка тоже конфликт
		if _, err := uc.blockRepo.GetActiveBySlot(txCtx, key); err == nil {
			return fmt.Errorf("%w: %s is already blocked", ErrSlotConflict, key)
		} else if !errors.Is(err, blockRepo.ErrBlockNotFound) {
			return fmt.Errorf("%w: failed to check block: %v", ErrInternal, err)
		}

		// 6.3. Создаем блокировку
		created, err := uc.blockRepo.Create(txCtx, &domain.Block{
			CourtID:   req.CourtID,
			Date:      req.Date,
			Start:     req.Start,
			End:       req.End,
			CreatedBy: req.OwnerID,
			CreatedAt: now,
		})
		if err != nil {
			if errors.Is(err, blockRepo.ErrSlotBlocked) {
				return fmt.Errorf("%w: %s is already blocked", ErrSlotConflict, key)
			}
			return fmt.Errorf("%w: failed to create block: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Warn("BlockSlot: conflict: %v", err)
		} else {
			uc.logger.Error("BlockSlot: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("BlockSlot: successfully created block id=%s", result.ID)

	// 7. Уведомление после фиксации
	event := domain.NewBlockEvent(domain.EventSlotBlocked, result, req.OwnerID, now)
	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Warn("BlockSlot: failed to publish %s for block id=%s: %v", event.Type, result.ID, err)
	}

	return result, nil
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
