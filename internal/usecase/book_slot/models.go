package book_slot

import (
	"time"

	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	PlayerID int64            // ID игрока
	CourtID  int64            // ID корта
	Date     time.Time        // Дата слота (без времени)
	Start    types.TimeString // Начало слота, например "09:00"
	End      types.TimeString // Конец слота, например "10:00"
}
