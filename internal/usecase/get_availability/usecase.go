package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	courtClient "github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// maxParallelDays ограничение на число дней, читаемых параллельно
const maxParallelDays = 4

// UseCase use case для получения сетки слотов корта
type UseCase struct {
	reservationRepo ReservationRepository
	blockRepo       BlockRepository
	courts          CourtDirectory
	maxDays         int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	blockRepo BlockRepository,
	courts CourtDirectory,
	maxDays int,
	logger Logger,
) *UseCase {
	if maxDays <= 0 {
		maxDays = 1
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		blockRepo:       blockRepo,
		courts:          courts,
		maxDays:         maxDays,
		logger:          logger,
	}
}

// Execute выполняет use case получения сетки слотов.
// Чтение идет без блокировок слотов, результат носит рекомендательный характер.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: user=%d, role=%s, court=%d, date=%s, days=%d",
		req.Viewer.UserID, req.Viewer.Role, req.CourtID, req.Date.Format(domain.DateFormat), req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем корт
	court, err := uc.courts.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtClient.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailability: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailability: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Вычисляем сетку по каждому дню, дни читаются параллельно
	start := types.TruncateDate(req.Date)
	days := make([]domain.DaySlots, req.Days)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDays)

	for i := 0; i < req.Days; i++ {
		date := start.AddDate(0, 0, i)
		g.Go(func() error {
			day, err := uc.resolveDay(gCtx, court, date, req.Viewer)
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("GetAvailability: failed to resolve court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: resolved %d day(s) with %d slots per day for court=%d",
		len(days), len(court.GenerateSlots()), req.CourtID)

	return &Response{Court: court, Days: days}, nil
}

// resolveDay читает состояние одного дня и вычисляет статусы слотов
func (uc *UseCase) resolveDay(ctx context.Context, court *domain.Court, date time.Time, viewer domain.Viewer) (domain.DaySlots, error) {
	reservations, err := uc.reservationRepo.ListActiveByCourtAndDate(ctx, court.ID, date)
	if err != nil {
		return domain.DaySlots{}, fmt.Errorf("list reservations for %s: %w", date.Format(domain.DateFormat), err)
	}

	blocks, err := uc.blockRepo.ListActiveByCourtAndDate(ctx, court.ID, date)
	if err != nil {
		return domain.DaySlots{}, fmt.Errorf("list blocks for %s: %w", date.Format(domain.DateFormat), err)
	}

	return ResolveDay(court, date, reservations, blocks, viewer), nil
}
