package block_slot

import (
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	blockSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/block_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// BlockSlotRequest HTTP request model
type BlockSlotRequest struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// BlockResponse HTTP response model
type BlockResponse struct {
	ID        string `json:"id"`
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	CreatedBy int64  `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BlockSlotRequest) ToUseCaseRequest(ownerID, courtID int64) (*blockSlot.Request, error) {
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

	return &blockSlot.Request{
		OwnerID: ownerID,
		CourtID: courtID,
		Date:    date,
		Start:   start,
		End:     end,
	}, nil
}

// FromDomainBlock конвертирует блокировку в HTTP response
func FromDomainBlock(b *domain.Block) *BlockResponse {
	return &BlockResponse{
		ID:        b.ID.String(),
		CourtID:   b.CourtID,
		Date:      b.Date.Format(domain.DateFormat),
		Start:     b.Start.String(),
		End:       b.End.String(),
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}
