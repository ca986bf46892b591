package unblock_slot

import (
	"fmt"

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

	return nil
}
