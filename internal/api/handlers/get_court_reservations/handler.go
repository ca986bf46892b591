package get_court_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CourtScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations"
	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations/models"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgInvalidPeriod   = "некорректный период, ожидаются даты YYYY-MM-DD и from <= to"
	msgInvalidFlag     = "некорректное значение includeCancelled"
	msgCourtNotFound   = "корт не найден"
	msgForbidden       = "доступ запрещен"
	msgMissingIdentity = "пользователь не аутентифицирован"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/reservations?from=&to=&includeCancelled=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathInt64(r, "courtId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	query := r.URL.Query()
	req := &models.ListCourtReservationsRequest{Viewer: identity.Viewer(), CourtID: courtID}

	if req.From, err = optionalDate(query.Get("from")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	if req.To, err = optionalDate(query.Get("to")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		if req.IncludeCancelled, err = strconv.ParseBool(raw); err != nil {
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	result, err := h.service.ListCourtReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, reservations.ErrCourtNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /courts/{id}/reservations - Access denied: court_id=%d, user_id=%d", courtID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /courts/{id}/reservations - Failed to list reservations: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// optionalDate парсит необязательный параметр даты
func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
