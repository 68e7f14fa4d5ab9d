package claim_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/integrations/notifier"
	"github.com/bookitgy/booking-engine/pkg/txmanager"
)

// UseCase арбитраж конкурентного захвата слота.
// Для одного слота из N одновременных запросов ровно один создаёт бронь,
// остальные получают ErrSlotTaken.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TxManager
	notifier     NotifierClient
	timeProvider TimeProvider
	settings     Settings
	logger       Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TxManager,
	notifierClient NotifierClient,
	timeProvider TimeProvider,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		notifier:     notifierClient,
		timeProvider: timeProvider,
		settings:     settings,
		logger:       logger,
	}
}

// Execute валидирует слот против актуального расписания и каталога,
// затем атомарно проверяет пересечения и создаёт бронь
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	provider, err := uc.scheduleRepo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			return nil, fmt.Errorf("%w: providerId=%d", ErrProviderNotFound, req.ProviderID)
		}
		uc.logger.Error("[ClaimSlot] Failed to get provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// Длительность и снимок услуги берём из каталога на момент захвата,
	// а не из запроса клиента
	service, err := uc.catalogRepo.GetByProviderAndID(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: serviceId=%d providerId=%d", ErrServiceNotFound, req.ServiceID, req.ProviderID)
	}

	start := req.StartTime.UTC().Truncate(time.Minute)
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	now := uc.timeProvider.Now()
	minStart := now.Add(time.Duration(uc.settings.MinLeadTimeMinutes) * time.Minute)
	if start.Before(minStart) {
		return nil, fmt.Errorf("%w: slot must start no earlier than %s",
			ErrTooSoon, minStart.UTC().Format(time.RFC3339))
	}

	if err := uc.checkWorkingHours(ctx, provider, start, end); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ProviderID:             req.ProviderID,
		ServiceID:              req.ServiceID,
		CustomerID:             req.CustomerID,
		StartTime:              start,
		EndTime:                end,
		Status:                 domain.StatusConfirmed,
		ServiceName:            service.Name,
		ServicePrice:           service.Price,
		ServiceDurationMinutes: service.DurationMinutes,
	}

	created, err := uc.claim(ctx, booking)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("[ClaimSlot] Booking %d created: provider=%d service=%d customer=%d start=%s",
		created.ID, created.ProviderID, created.ServiceID, created.CustomerID, created.StartTime.Format(time.RFC3339))

	uc.notifier.PublishBookingEvent(ctx, &notifier.BookingEvent{
		Event:       notifier.EventBookingConfirmed,
		BookingID:   created.ID,
		ProviderID:  created.ProviderID,
		CustomerID:  created.CustomerID,
		ServiceName: created.ServiceName,
		StartTime:   created.StartTime,
	})

	return &Response{Booking: created}, nil
}

// checkWorkingHours проверяет, что слот целиком внутри рабочего интервала
// даты и выровнен по сетке генератора
func (uc *UseCase) checkWorkingHours(ctx context.Context, provider *domain.Provider, start, end time.Time) error {
	schedule, err := uc.scheduleRepo.GetWorkingHours(ctx, provider.ID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrNoWorkingHours) {
			return fmt.Errorf("%w: providerId=%d has no schedule", ErrProviderNotFound, provider.ID)
		}
		uc.logger.Error("[ClaimSlot] Failed to get working hours for provider %d: %v", provider.ID, err)
		return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	loc, err := uc.providerLocation(provider)
	if err != nil {
		uc.logger.Error("[ClaimSlot] Failed to resolve timezone for provider %d: %v", provider.ID, err)
		return fmt.Errorf("%w: resolve provider timezone: %v", ErrInternal, err)
	}

	localDate := start.In(loc)
	interval, err := domain.OpenIntervalFor(schedule, loc, localDate)
	if err != nil {
		uc.logger.Error("[ClaimSlot] Invalid schedule rule for provider %d on %s: %v",
			provider.ID, localDate.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: invalid schedule rule: %v", ErrInternal, err)
	}

	if interval == nil || !interval.Contains(start, end) {
		return fmt.Errorf("%w: %s - %s on %s", ErrOutsideWorkingHours,
			start.Format(time.RFC3339), end.Format(time.RFC3339), localDate.Format(domain.DateFormat))
	}

	granularity := time.Duration(uc.settings.GranularityMinutes) * time.Minute
	if start.Sub(interval.Start)%granularity != 0 {
		return fmt.Errorf("%w: startTime is not aligned to the %d-minute slot grid",
			ErrOutsideWorkingHours, uc.settings.GranularityMinutes)
	}

	return nil
}

// providerLocation возвращает таймзону провайдера. Пустая или битая зона
// в данных не блокирует бронирования - подставляем зону по умолчанию
func (uc *UseCase) providerLocation(provider *domain.Provider) (*time.Location, error) {
	if provider.Timezone == "" {
		return time.LoadLocation(uc.settings.DefaultTimezone)
	}

	loc, err := provider.Location()
	if err != nil {
		uc.logger.Warn("[ClaimSlot] Invalid timezone %q for provider %d, falling back to %s",
			provider.Timezone, provider.ID, uc.settings.DefaultTimezone)
		return time.LoadLocation(uc.settings.DefaultTimezone)
	}
	return loc, nil
}

// claim выполняет check-then-insert в одной serializable транзакции
// с ограниченным бюджетом времени
func (uc *UseCase) claim(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	claimCtx := ctx
	if uc.settings.ClaimTimeout > 0 {
		var cancel context.CancelFunc
		claimCtx, cancel = context.WithTimeout(ctx, uc.settings.ClaimTimeout)
		defer cancel()
	}

	var created *domain.Booking

	err := uc.txManager.DoSerializable(claimCtx, func(txCtx context.Context) error {
		// SELECT ... FOR UPDATE блокирует активные брони провайдера в окне слота
		overlapping, err := uc.bookingRepo.GetActiveOverlapping(txCtx, booking.ProviderID, booking.StartTime, booking.EndTime)
		if err != nil {
			// Ошибка драйвера остаётся в цепочке: конфликт сериализации
			// на самом запросе тоже должен уходить в retry
			return fmt.Errorf("%w: failed to check overlapping bookings: %w", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			return fmt.Errorf("%w: providerId=%d start=%s", ErrSlotTaken,
				booking.ProviderID, booking.StartTime.Format(time.RFC3339))
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInternal):
			return nil, err
		case errors.Is(err, txmanager.ErrSerializationFailure),
			errors.Is(err, context.DeadlineExceeded):
			uc.logger.Warn("[ClaimSlot] Claim contention for provider %d start=%s: %v",
				booking.ProviderID, booking.StartTime.Format(time.RFC3339), err)
			return nil, fmt.Errorf("%w: %v", ErrEngineBusy, err)
		default:
			uc.logger.Error("[ClaimSlot] Transaction failed for provider %d: %v", booking.ProviderID, err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	return created, nil
}
