package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
)

// UseCase генерация доступных слотов для услуги провайдера
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	settings     Settings
	logger       Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	timeProvider TimeProvider,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		timeProvider: timeProvider,
		settings:     settings,
		logger:       logger,
	}
}

// Execute возвращает доступные слоты по датам диапазона.
// Слоты вычисляются на лету из рабочих часов и активных броней,
// результат нигде не материализуется.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	provider, err := uc.scheduleRepo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			return nil, fmt.Errorf("%w: providerId=%d", ErrProviderNotFound, req.ProviderID)
		}
		uc.logger.Error("[GetAvailability] Failed to get provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetByProviderAndID(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: serviceId=%d providerId=%d", ErrServiceNotFound, req.ServiceID, req.ProviderID)
	}

	schedule, err := uc.scheduleRepo.GetWorkingHours(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrNoWorkingHours) {
			// Провайдер без единой строки расписания: отличаем от "закрыт каждый день"
			return nil, fmt.Errorf("%w: providerId=%d has no schedule", ErrProviderNotFound, req.ProviderID)
		}
		uc.logger.Error("[GetAvailability] Failed to get working hours for provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	loc, err := uc.providerLocation(provider)
	if err != nil {
		uc.logger.Error("[GetAvailability] Failed to resolve timezone for provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: resolve provider timezone: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	minStart := now.Add(time.Duration(uc.settings.MinLeadTimeMinutes) * time.Minute)

	days := req.Days
	if days == 0 {
		days = uc.settings.DefaultRangeDays
	}

	startDate := uc.resolveStartDate(req.StartDate, now, loc)

	// Один снимок активных броней на весь диапазон: окно покрывает все даты
	// с запасом в сутки по обе стороны на смещение таймзоны
	windowStart := startDate.Add(-24 * time.Hour)
	windowEnd := startDate.AddDate(0, 0, days).Add(24 * time.Hour)

	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID: req.ProviderID,
		StartTime:  &windowStart,
		EndTime:    &windowEnd,
	})
	if err != nil {
		uc.logger.Error("[GetAvailability] Failed to get bookings for provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	response := &Response{
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Days:            make([]DayAvailability, 0, days),
	}

	for offset := 0; offset < days; offset++ {
		date := startDate.AddDate(0, 0, offset)

		day := DayAvailability{Date: date, Slots: []time.Time{}}

		interval, err := domain.OpenIntervalFor(schedule, loc, date)
		if err != nil {
			uc.logger.Error("[GetAvailability] Invalid schedule rule for provider %d on %s: %v",
				req.ProviderID, date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: invalid schedule rule: %v", ErrInternal, err)
		}

		if interval != nil {
			day.Slots = enumerateSlots(*interval, service.DurationMinutes, uc.settings.GranularityMinutes, minStart, bookings)
			if day.Slots == nil {
				day.Slots = []time.Time{}
			}
		}

		response.Days = append(response.Days, day)
	}

	return response, nil
}

// resolveStartDate нормализует дату начала диапазона к полуночи в таймзоне
// провайдера. Календарные компоненты запрошенной даты трактуются как
// локальная дата провайдера, независимо от таймзоны парсинга.
func (uc *UseCase) resolveStartDate(requested *time.Time, now time.Time, loc *time.Location) time.Time {
	base := now.In(loc)
	if requested != nil {
		base = *requested
	}

	return time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, loc)
}

// providerLocation возвращает таймзону провайдера. Пустая или битая зона
// в данных не должна блокировать выдачу слотов - подставляем зону по умолчанию
func (uc *UseCase) providerLocation(provider *domain.Provider) (*time.Location, error) {
	if provider.Timezone == "" {
		return time.LoadLocation(uc.settings.DefaultTimezone)
	}

	loc, err := provider.Location()
	if err != nil {
		uc.logger.Warn("[GetAvailability] Invalid timezone %q for provider %d, falling back to %s",
			provider.Timezone, provider.ID, uc.settings.DefaultTimezone)
		return time.LoadLocation(uc.settings.DefaultTimezone)
	}
	return loc, nil
}
