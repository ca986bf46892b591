package block_slot

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	req.Date = types.TruncateDate(req.Date)

	start, err := types.NewTimeStringFromString(req.Start.String())
	if err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidSlot, err)
	}
	end, err := types.NewTimeStringFromString(req.End.String())
	if err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidSlot, err)
	}
	req.Start, req.End = start, end

	if !start.IsBefore(end) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidSlot)
	}

	return nil
}

// validateSlot проверяет, что слот есть в сетке корта и ещё не начался
func validateSlot(court *domain.Court, req *Request, now time.Time, loc *time.Location) error {
	if !court.HasSlot(req.Start, req.End) {
		return fmt.Errorf("%w: %s-%s is not a slot of court %d", ErrInvalidSlot, req.Start, req.End, court.ID)
	}

	if !req.Start.On(req.Date, loc).After(now) {
		return fmt.Errorf("%w: slot %s %s has already started", ErrInvalidSlot, req.Date.Format(domain.DateFormat), req.Start)
	}

	return nil
}
