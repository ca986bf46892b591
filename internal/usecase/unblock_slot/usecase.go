package unblock_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	blockRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/block"
	courtClient "github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
)

const operation = "unblock"

// UseCase use case для снятия блокировки слота владельцем корта
type UseCase struct {
	blockRepo    BlockRepository
	slotLocker   SlotLocker
	courts       CourtDirectory
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	blockRepo BlockRepository,
	slotLocker SlotLocker,
	courts CourtDirectory,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		blockRepo:    blockRepo,
		slotLocker:   slotLocker,
		courts:       courts,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case снятия блокировки.
// Блокировка не удаляется, а помечается снятой; слот снова доступен при следующем расчёте сетки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("UnblockSlot: owner=%d, court=%d, date=%s, slot=%s-%s",
		req.OwnerID, req.CourtID, req.Date.Format(domain.DateFormat), req.Start, req.End)

	err := uc.execute(ctx, req)
	uc.metrics.ObserveSlotOperation(operation, outcomeOf(err))
	return err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) error {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UnblockSlot: validation failed: %v", err)
		return err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем корт
	court, err := uc.courts.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtClient.ErrCourtNotFound) {
			uc.logger.Warn("UnblockSlot: court id=%d not found", req.CourtID)
			return ErrCourtNotFound
		}
		uc.logger.Error("UnblockSlot: failed to get court id=%d: %v", req.CourtID, err)
		return fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Проверяем права владельца
	if !court.IsOwnedBy(req.OwnerID) {
		uc.logger.Warn("UnblockSlot: user=%d does not own court id=%d", req.OwnerID, req.CourtID)
		return ErrNotOwner
	}

	// 4. Слот должен быть из сетки корта
	if !court.HasSlot(req.Start, req.End) {
		uc.logger.Warn("UnblockSlot: %s-%s is not a slot of court id=%d", req.Start, req.End, req.CourtID)
		return ErrInvalidSlot
	}

	key := domain.SlotKey{CourtID: req.CourtID, Date: req.Date, Start: req.Start, End: req.End}

	var removed *domain.Block

	// 5. Снимаем блокировку под блокировкой слота
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.slotLocker.LockSlot(txCtx, key); err != nil {
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		block, err := uc.blockRepo.GetActiveBySlot(txCtx, key)
		if err != nil {
			if errors.Is(err, blockRepo.ErrBlockNotFound) {
				return ErrBlockNotFound
			}
			return fmt.Errorf("%w: failed to get block: %v", ErrInternal, err)
		}

		if err := uc.blockRepo.Remove(txCtx, block.ID, req.OwnerID, now); err != nil {
			if errors.Is(err, blockRepo.ErrBlockNotFound) {
				return ErrBlockNotFound
			}
			return fmt.Errorf("%w: failed to remove block: %v", ErrInternal, err)
		}

		removed = block
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			uc.logger.Warn("UnblockSlot: %s has no active block", key)
		} else {
			uc.logger.Error("UnblockSlot: %v", err)
		}
		return err
	}

	uc.logger.Info("UnblockSlot: successfully removed block id=%s", removed.ID)

	// 6. Уведомление после фиксации
	event := domain.NewBlockEvent(domain.EventSlotUnblocked, removed, req.OwnerID, now)
	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Warn("UnblockSlot: failed to publish %s for block id=%s: %v", event.Type, removed.ID, err)
	}

	return nil
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
