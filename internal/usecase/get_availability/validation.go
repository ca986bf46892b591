package get_availability

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса и нормализует количество дней
func validateRequest(req *Request, maxDays int) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Days == 0 {
		req.Days = 1
	}

	if req.Days < 0 || req.Days > maxDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxDays)
	}

	return nil
}
