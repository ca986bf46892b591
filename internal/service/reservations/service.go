package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/reservation"
	courtClient "github.com/m04kA/SMC-CourtScheduler/internal/integrations/courtdirectory"
	"github.com/m04kA/SMC-CourtScheduler/internal/service/reservations/models"
)

// Service сервис для чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	courts          CourtDirectory
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	courts CourtDirectory,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		reservationRepo: reservationRepo,
		courts:          courts,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID.
// Видеть бронь могут её игрок, владелец корта и администратор.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, viewer domain.Viewer) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%s for user=%d", id, viewer.UserID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Игрок видит свою бронь без обращения к каталогу
	if res.PlayerID != viewer.UserID {
		if err := s.checkCourtAccess(ctx, res.CourtID, viewer); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to reservation id=%s", viewer.UserID, id)
			return nil, err
		}
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%s", id)
	return models.FromDomainReservationAt(res, s.timeProvider.Now(), s.location), nil
}

// ListPlayerReservations получает историю бронирований игрока, новые сверху.
// Опционально фильтрует по статусу.
func (s *Service) ListPlayerReservations(ctx context.Context, req *models.ListPlayerReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListPlayerReservations: fetching reservations for player=%d, status=%v", req.PlayerID, req.Status)

	var status *domain.ReservationStatus
	if req.Status != nil {
		st, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListPlayerReservations: invalid status=%s for player=%d", *req.Status, req.PlayerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	list, err := s.reservationRepo.ListByPlayer(ctx, req.PlayerID, status)
	if err != nil {
		s.logger.Error("ListPlayerReservations: repository error for player=%d: %v", req.PlayerID, err)
		return nil, fmt.Errorf("%w: ListPlayerReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListPlayerReservations: successfully fetched %d reservations for player=%d", len(list), req.PlayerID)
	return &models.ReservationListResponse{
		Reservations: models.FromDomainReservationList(list, s.timeProvider.Now(), s.location),
	}, nil
}

// ListCourtReservations получает бронирования корта за период со сводкой.
// Доступно владельцу корта и администратору.
func (s *Service) ListCourtReservations(ctx context.Context, req *models.ListCourtReservationsRequest) (*models.CourtReservationsResponse, error) {
	logMsg := fmt.Sprintf("ListCourtReservations: fetching reservations for court=%d, user=%d", req.CourtID, req.Viewer.UserID)
	if req.From != nil {
		logMsg += fmt.Sprintf(", from=%s", req.From.Format(domain.DateFormat))
	}
	if req.To != nil {
		logMsg += fmt.Sprintf(", to=%s", req.To.Format(domain.DateFormat))
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	court, err := s.getCourt(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	if !canManage(court, req.Viewer) {
		s.logger.Warn("ListCourtReservations: access denied for user=%d to court=%d", req.Viewer.UserID, req.CourtID)
		return nil, ErrAccessDenied
	}

	list, err := s.reservationRepo.ListByCourt(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListCourtReservations: repository error for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: ListCourtReservations - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	s.logger.Info("ListCourtReservations: successfully fetched %d reservations for court=%d", len(list), req.CourtID)
	return &models.CourtReservationsResponse{
		CourtID:      court.ID,
		CourtName:    court.Name,
		Summary:      models.Summarize(list, now.In(s.location)),
		Reservations: models.FromDomainReservationList(list, now, s.location),
	}, nil
}

// checkCourtAccess проверяет, что пользователь управляет кортом
func (s *Service) checkCourtAccess(ctx context.Context, courtID int64, viewer domain.Viewer) error {
	if viewer.Role == domain.RoleAdmin {
		return nil
	}

	court, err := s.getCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			return ErrAccessDenied
		}
		return err
	}

	if !canManage(court, viewer) {
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) getCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	court, err := s.courts.GetCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtClient.ErrCourtNotFound) {
			s.logger.Warn("getCourt: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("getCourt: failed to get court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}
	return court, nil
}

// canManage владелец корта или администратор
func canManage(court *domain.Court, viewer domain.Viewer) bool {
	return viewer.Role == domain.RoleAdmin || (viewer.Role == domain.RoleOwner && court.IsOwnedBy(viewer.UserID))
}
