package get_availability

import (
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// Request модель запроса на получение сетки слотов
type Request struct {
	Viewer  domain.Viewer // Кто смотрит (определяет только доступные действия)
	CourtID int64         // ID корта
	Date    time.Time     // Первая дата (без времени)
	Days    int           // Количество дней, 0 означает 1
}

// Response модель ответа с сеткой слотов
type Response struct {
	Court *domain.Court
	Days  []domain.DaySlots
}
