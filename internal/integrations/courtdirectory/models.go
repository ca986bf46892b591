package courtdirectory

import "github.com/m04kA/SMC-CourtScheduler/internal/domain"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Court модель корта из сервиса каталога (и из YAML-файла)
type Court struct {
	ID                  int64   `json:"id" yaml:"id"`
	OwnerID             int64   `json:"owner_id" yaml:"owner_id"`
	Name                string  `json:"name" yaml:"name"`
	Location            string  `json:"location" yaml:"location"`
	PricePerHour        float64 `json:"price_per_hour" yaml:"price_per_hour"`
	OpeningHour         int     `json:"opening_hour" yaml:"opening_hour"`
	ClosingHour         int     `json:"closing_hour" yaml:"closing_hour"`
	SlotDurationMinutes int     `json:"slot_duration_minutes" yaml:"slot_duration_minutes"`
	IsApproved          bool    `json:"is_approved" yaml:"is_approved"`
}

// toDomain конвертирует модель каталога в доменную
func (c Court) toDomain() *domain.Court {
	return &domain.Court{
		ID:                  c.ID,
		OwnerID:             c.OwnerID,
		Name:                c.Name,
		Location:            c.Location,
		PricePerHour:        c.PricePerHour,
		OpeningHour:         c.OpeningHour,
		ClosingHour:         c.ClosingHour,
		SlotDurationMinutes: c.SlotDurationMinutes,
		IsApproved:          c.IsApproved,
	}
}
