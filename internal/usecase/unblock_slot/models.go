package unblock_slot

import (
	"time"

	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// Request модель запроса на снятие блокировки слота
type Request struct {
	OwnerID int64
	CourtID int64
	Date    time.Time
	Start   types.TimeString
	End     types.TimeString
}
