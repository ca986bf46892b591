package get_availability

import (
	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	getAvailability "github.com/m04kA/SMC-CourtScheduler/internal/usecase/get_availability"
)

// SlotResponse слот в сетке
type SlotResponse struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Status  string   `json:"status"`
	Actions []string `json:"actions"`
}

// DayResponse сетка слотов одного дня
type DayResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CourtID             int64         `json:"courtId"`
	CourtName           string        `json:"courtName"`
	SlotDurationMinutes int           `json:"slotDurationMinutes"`
	PricePerHour        float64       `json:"pricePerHour"`
	Days                []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	_, _, duration := resp.Court.Schedule()

	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		slots := make([]SlotResponse, 0, len(d.Slots))
		for _, s := range d.Slots {
			actions := make([]string, 0, len(s.Actions))
			for _, a := range s.Actions {
				actions = append(actions, string(a))
			}
			slots = append(slots, SlotResponse{
				Start:   s.Start.String(),
				End:     s.End.String(),
				Status:  string(s.Status),
				Actions: actions,
			})
		}
		days = append(days, DayResponse{Date: d.Date.Format(domain.DateFormat), Slots: slots})
	}

	return &AvailabilityResponse{
		CourtID:             resp.Court.ID,
		CourtName:           resp.Court.Name,
		SlotDurationMinutes: duration,
		PricePerHour:        resp.Court.PricePerHour,
		Days:                days,
	}
}
