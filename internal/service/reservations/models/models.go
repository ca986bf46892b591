package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// ListPlayerReservationsRequest запрос на получение бронирований игрока
type ListPlayerReservationsRequest struct {
	PlayerID int64   `json:"playerId"`
	Status   *string `json:"status,omitempty"`
}

// ListCourtReservationsRequest запрос на получение бронирований корта
type ListCourtReservationsRequest struct {
	Viewer           domain.Viewer `json:"-"`
	CourtID          int64         `json:"courtId"`
	From             *time.Time    `json:"from,omitempty"`             // Начало периода (опционально)
	To               *time.Time    `json:"to,omitempty"`               // Конец периода (опционально)
	IncludeCancelled bool          `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListCourtReservationsRequest) ToDomainFilter() domain.CourtReservationsFilter {
	return domain.CourtReservationsFilter{
		CourtID:          r.CourtID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID           string  `json:"id"`
	CourtID      int64   `json:"courtId"`
	PlayerID     int64   `json:"playerId"`
	Date         string  `json:"date"`  // "2024-06-01"
	Start        string  `json:"start"` // "09:00"
	End          string  `json:"end"`   // "10:00"
	Status       string  `json:"status"`
	PricePerHour float64 `json:"pricePerHour"`
	Amount       float64 `json:"amount"`
	Expired      bool    `json:"expired"` // Слот уже закончился, бронь не отменена

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// CourtSummary сводка по бронированиям корта за период
type CourtSummary struct {
	Active    int     `json:"active"`
	Cancelled int     `json:"cancelled"`
	Revenue   float64 `json:"revenue"` // Сумма по активным броням
	Today     int     `json:"today"`   // Активные брони на сегодня
}

// CourtReservationsResponse ответ для владельца корта
type CourtReservationsResponse struct {
	CourtID      int64                 `json:"courtId"`
	CourtName    string                `json:"courtName"`
	Summary      CourtSummary          `json:"summary"`
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:           r.ID.String(),
		CourtID:      r.CourtID,
		PlayerID:     r.PlayerID,
		Date:         r.Date.Format(domain.DateFormat),
		Start:        r.Start.String(),
		End:          r.End.String(),
		Status:       string(r.Status),
		PricePerHour: r.PricePerHour,
		Amount:       r.Amount,
		CreatedAt:    r.CreatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationAt конвертирует domain модель в DTO с признаком истёкшего слота.
// Время окончания слота считается в часовом поясе кортов.
func FromDomainReservationAt(r *domain.Reservation, now time.Time, loc *time.Location) *ReservationResponse {
	resp := FromDomainReservation(r)
	if resp != nil {
		resp.Expired = r.IsExpired(now, loc)
	}
	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation, now time.Time, loc *time.Location) []ReservationResponse {
	result := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		if resp := FromDomainReservationAt(r, now, loc); resp != nil {
			result = append(result, *resp)
		}
	}
	return result
}

// Summarize считает сводку по списку бронирований.
// today - текущая дата в часовом поясе кортов.
func Summarize(list []*domain.Reservation, today time.Time) CourtSummary {
	todayStr := today.Format(domain.DateFormat)

	var s CourtSummary
	for _, r := range list {
		if !r.IsActive() {
			s.Cancelled++
			continue
		}
		s.Active++
		s.Revenue += r.Amount
		if r.Date.Format(domain.DateFormat) == todayStr {
			s.Today++
		}
	}
	return s
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
