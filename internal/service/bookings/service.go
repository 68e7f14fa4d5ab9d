package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookitgy/booking-engine/internal/domain"
	bookingRepo "github.com/bookitgy/booking-engine/internal/infra/storage/booking"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/integrations/notifier"
	"github.com/bookitgy/booking-engine/internal/service/bookings/models"
)

// actorRole роль пользователя по отношению к конкретному бронированию
type actorRole int

const (
	roleNone actorRole = iota
	roleCustomer
	roleProvider
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	notifier     NotifierClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	notifierClient NotifierClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		notifier:     notifierClient,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только клиент, который его
// создал, и провайдер, которому оно принадлежит
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveActorRole(ctx, booking, userID)
	if err != nil {
		return nil, err
	}
	if role == roleNone {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает книгу записи провайдера с фильтрацией
// по окну времени и статусу. Доступно только владельцу провайдера.
//
// Примеры использования:
// - Все активные записи: GetProviderBookings(ctx, &GetProviderBookingsRequest{ProviderID: 1, UserID: 42})
// - Записи на день: StartTime и EndTime ограничивают сутки
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)

	if err := s.checkProviderOwner(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Статус после отмены зависит от того, кто отменяет: клиент или провайдер.
// Повторная отмена уже отменённого бронирования - no-op, возвращает текущее
// состояние; отмена завершённого или no-show возвращает ErrCannotCancel.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", id, req.UserID)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveActorRole(ctx, booking, req.UserID)
	if err != nil {
		return nil, err
	}
	if role == roleNone {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	if booking.IsCancelled() {
		s.logger.Info("Cancel: booking id=%d already cancelled (%s), no-op", id, booking.Status)
		return models.FromDomainBooking(booking), nil
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d already in terminal status %s", id, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, booking.Status)
	}

	status := domain.StatusCancelledByCustomer
	cancelledBy := "customer"
	if role == roleProvider {
		status = domain.StatusCancelledByProvider
		cancelledBy = "provider"
	}

	if err := s.bookingRepo.Cancel(ctx, id, status, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	cancelled, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d cancelled by %s", id, cancelledBy)

	s.notifier.PublishBookingEvent(ctx, &notifier.BookingEvent{
		Event:       notifier.EventBookingCancelled,
		BookingID:   cancelled.ID,
		ProviderID:  cancelled.ProviderID,
		CustomerID:  cancelled.CustomerID,
		ServiceName: cancelled.ServiceName,
		StartTime:   cancelled.StartTime,
		CancelledBy: cancelledBy,
	})

	return models.FromDomainBooking(cancelled), nil
}

// Complete переводит бронирование в completed
// Доступно только провайдеру и только из активного статуса
func (s *Service) Complete(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	return s.finalize(ctx, id, userID, domain.StatusCompleted)
}

// MarkNoShow переводит бронирование в no_show
// Доступно только провайдеру и только из активного статуса
func (s *Service) MarkNoShow(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	return s.finalize(ctx, id, userID, domain.StatusNoShow)
}

// finalize общий путь терминальных переходов, инициируемых провайдером
func (s *Service) finalize(ctx context.Context, id int64, userID int64, status domain.BookingStatus) (*models.BookingResponse, error) {
	s.logger.Info("Finalize: booking id=%d -> %s by user=%d", id, status, userID)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveActorRole(ctx, booking, userID)
	if err != nil {
		return nil, err
	}
	if role != roleProvider {
		s.logger.Warn("Finalize: user=%d is not the provider of booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	if booking.IsTerminal() {
		s.logger.Warn("Finalize: booking id=%d already in terminal status %s", id, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Finalize: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Finalize - repository error: %v", ErrInternal, err)
	}

	updated, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Finalize: booking id=%d moved to %s", id, status)
	return models.FromDomainBooking(updated), nil
}

// getBooking читает бронирование с маппингом ошибок репозитория
func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// resolveActorRole определяет роль пользователя по отношению к бронированию
func (s *Service) resolveActorRole(ctx context.Context, booking *domain.Booking, userID int64) (actorRole, error) {
	if booking.CustomerID == userID {
		return roleCustomer, nil
	}

	provider, err := s.scheduleRepo.GetProviderByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			return roleNone, nil
		}
		s.logger.Error("resolveActorRole: repository error for user=%d: %v", userID, err)
		return roleNone, fmt.Errorf("%w: resolveActorRole - repository error: %v", ErrInternal, err)
	}

	if provider.ID == booking.ProviderID {
		return roleProvider, nil
	}

	return roleNone, nil
}

// checkProviderOwner проверяет, что пользователь владеет провайдером
func (s *Service) checkProviderOwner(ctx context.Context, providerID, userID int64) error {
	provider, err := s.scheduleRepo.GetProviderByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			return ErrAccessDenied
		}
		s.logger.Error("checkProviderOwner: repository error for user=%d: %v", userID, err)
		return fmt.Errorf("%w: checkProviderOwner - repository error: %v", ErrInternal, err)
	}

	if provider.ID != providerID {
		return ErrAccessDenied
	}

	return nil
}
