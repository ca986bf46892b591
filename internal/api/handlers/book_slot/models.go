package book_slot

import (
	bookSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/book_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	Date  string `json:"date"`  // "2024-06-01"
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "10:00"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(playerID, courtID int64) (*bookSlot.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.Start)
	if err != nil {
		return nil, err
	}

	end, err := types.NewTimeStringFromString(r.End)
	if err != nil {
		return nil, err
	}

	return &bookSlot.Request{
		PlayerID: playerID,
		CourtID:  courtID,
		Date:     date,
		Start:    start,
		End:      end,
	}, nil
}
