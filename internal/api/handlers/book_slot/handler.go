package book_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-CourtScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations/models"
	bookSlot "github.com/m04kA/SMC-CourtScheduler/internal/usecase/book_slot"
	"github.com/m04kA/SMC-CourtScheduler/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgInvalidSlot        = "некорректный слот: время не входит в расписание корта или слот уже начался"
	msgSlotConflict       = "слот уже забронирован или заблокирован"
	msgCourtNotFound      = "корт не найден"
	msgCourtNotApproved   = "корт ещё не одобрен администратором"
	msgMissingIdentity    = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/courts/{courtId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathInt64(r, "courtId")
	if err != nil {
		h.logger.Warn("POST /courts/{id}/reservations - %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts/{id}/reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID, courtID)
	if err != nil {
		h.logger.Warn("POST /courts/{id}/reservations - Failed to parse request: %v", err)
		if errors.Is(err, types.ErrInvalidDate) {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrSlotConflict):
			h.logger.Warn("POST /courts/{id}/reservations - Slot conflict: user_id=%d, court_id=%d", userID, courtID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, bookSlot.ErrInvalidSlot):
			h.logger.Warn("POST /courts/{id}/reservations - Invalid slot: user_id=%d, court_id=%d", userID, courtID)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, bookSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrCourtNotFound):
			h.logger.Warn("POST /courts/{id}/reservations - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, bookSlot.ErrCourtNotApproved):
			h.logger.Warn("POST /courts/{id}/reservations - Court not approved: court_id=%d", courtID)
			handlers.RespondForbidden(w, msgCourtNotApproved)

		default:
			h.logger.Error("POST /courts/{id}/reservations - Failed to book slot: user_id=%d, court_id=%d, error=%v",
				userID, courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts/{id}/reservations - Reservation created: reservation_id=%s, user_id=%d, court_id=%d",
		result.ID, userID, courtID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(result))
}
