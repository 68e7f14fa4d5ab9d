package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookitgy/booking-engine/internal/domain"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/pkg/types"
)

type fakeScheduleRepo struct {
	provider    *domain.Provider
	schedule    domain.WeekSchedule
	providerErr error
	hoursErr    error
}

func (f *fakeScheduleRepo) GetProvider(_ context.Context, _ int64) (*domain.Provider, error) {
	if f.providerErr != nil {
		return nil, f.providerErr
	}
	return f.provider, nil
}

func (f *fakeScheduleRepo) GetWorkingHours(_ context.Context, _ int64) (domain.WeekSchedule, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	return f.schedule, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalogRepo) GetByProviderAndID(_ context.Context, _, _ int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func weekOpen(t *testing.T, open, close string) domain.WeekSchedule {
	t.Helper()
	schedule := make(domain.WeekSchedule, 0, domain.DaysPerWeek)
	for weekday := 0; weekday < domain.DaysPerWeek; weekday++ {
		schedule = append(schedule, &domain.WorkingHoursRule{
			ProviderID: 1,
			Weekday:    weekday,
			IsClosed:   false,
			OpenTime:   mustTime(t, open),
			CloseTime:  mustTime(t, close),
		})
	}
	return schedule
}

func defaultSettings() Settings {
	return Settings{
		GranularityMinutes: 30,
		MinLeadTimeMinutes: 30,
		DefaultRangeDays:   14,
		MaxRangeDays:       60,
		DefaultTimezone:    "America/Guyana",
	}
}

// monday - фиксированный понедельник, далеко в будущем от now в тестах
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

func newTestUseCase(t *testing.T, schedule domain.WeekSchedule, durationMinutes int, bookings []*domain.Booking, now time.Time) *UseCase {
	t.Helper()
	return NewUseCase(
		&fakeBookingRepo{bookings: bookings},
		&fakeScheduleRepo{
			provider: &domain.Provider{ID: 1, UserID: 10, DisplayName: "Test", Timezone: "UTC"},
			schedule: schedule,
		},
		&fakeCatalogRepo{
			service: &domain.Service{ID: 5, ProviderID: 1, Name: "Haircut", Price: 25, DurationMinutes: durationMinutes},
		},
		&fixedClock{now: now},
		defaultSettings(),
		nopLogger{},
	)
}

func slotTimes(day DayAvailability) []string {
	out := make([]string, 0, len(day.Slots))
	for _, s := range day.Slots {
		out = append(out, s.UTC().Format("15:04"))
	}
	return out
}

func TestExecute_ServiceFitsWindowExactly(t *testing.T) {
	// Окно 09:00-10:00, услуга 60 минут: ровно один слот
	uc := newTestUseCase(t, weekOpen(t, "09:00", "10:00"), 60, nil, monday.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, []string{"09:00"}, slotTimes(resp.Days[0]))
}

func TestExecute_ServiceDoesNotFit(t *testing.T) {
	// Услуга 61 минута не помещается в окно 09:00-10:00
	uc := newTestUseCase(t, weekOpen(t, "09:00", "10:00"), 61, nil, monday.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecute_ClosedDayIsEmptyNotError(t *testing.T) {
	schedule := weekOpen(t, "09:00", "17:00")
	schedule.RuleFor(0).IsClosed = true // понедельник закрыт

	uc := newTestUseCase(t, schedule, 30, nil, monday.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Empty(t, resp.Days[0].Slots)
	assert.NotEmpty(t, resp.Days[1].Slots) // вторник открыт
}

func TestExecute_BookingRemovesOverlappingSlots(t *testing.T) {
	// Сетка 30 минут, услуга 45 минут, бронь 10:00-11:00
	booking := &domain.Booking{
		ID:         1,
		ProviderID: 1,
		StartTime:  monday.Add(10 * time.Hour),
		EndTime:    monday.Add(11 * time.Hour),
		Status:     domain.StatusConfirmed,
	}

	uc := newTestUseCase(t, weekOpen(t, "09:00", "17:00"), 45, []*domain.Booking{booking}, monday.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	slots := slotTimes(resp.Days[0])
	assert.Contains(t, slots, "09:00") // 09:00-09:45 заканчивается до брони
	assert.NotContains(t, slots, "09:30")
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")
	assert.Contains(t, slots, "11:00") // стык с концом брони допустим
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	// Слой хранения уже отфильтровал неактивные брони - снимок пуст
	uc := newTestUseCase(t, weekOpen(t, "09:00", "10:00"), 60, nil, monday.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, slotTimes(resp.Days[0]))
}

func TestExecute_LeadTimeFiltersTodaySlots(t *testing.T) {
	// Сейчас понедельник 12:00 UTC, lead 30 минут: слоты раньше 12:30 скрыты
	now := monday.Add(12 * time.Hour)
	uc := newTestUseCase(t, weekOpen(t, "09:00", "17:00"), 30, nil, now)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)

	slots := slotTimes(resp.Days[0])
	assert.NotContains(t, slots, "09:00")
	assert.NotContains(t, slots, "12:00")
	assert.Contains(t, slots, "12:30") // ровно на границе now+lead, допустим
	assert.Contains(t, slots, "13:00")
}

func TestExecute_PastDateIsEmpty(t *testing.T) {
	now := monday.AddDate(0, 0, 7) // запрашиваем неделю назад
	uc := newTestUseCase(t, weekOpen(t, "09:00", "17:00"), 30, nil, now)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecute_ProviderTimezone(t *testing.T) {
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{
			provider: &domain.Provider{ID: 1, UserID: 10, DisplayName: "Test", Timezone: "America/Guyana"},
			schedule: weekOpen(t, "09:00", "10:00"),
		},
		&fakeCatalogRepo{
			service: &domain.Service{ID: 5, ProviderID: 1, Name: "Haircut", DurationMinutes: 60},
		},
		&fixedClock{now: monday.AddDate(0, 0, -7)},
		defaultSettings(),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	// 09:00 в Гайане (UTC-4) = 13:00 UTC
	assert.Equal(t, []string{"13:00"}, slotTimes(resp.Days[0]))
}

func TestExecute_InvalidProviderTimezoneFallsBack(t *testing.T) {
	// Битая зона в данных провайдера не валит запрос, работаем в зоне
	// по умолчанию из настроек
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{
			provider: &domain.Provider{ID: 1, UserID: 10, DisplayName: "Test", Timezone: "Mars/Olympus"},
			schedule: weekOpen(t, "09:00", "10:00"),
		},
		&fakeCatalogRepo{
			service: &domain.Service{ID: 5, ProviderID: 1, Name: "Haircut", DurationMinutes: 60},
		},
		&fixedClock{now: monday.AddDate(0, 0, -7)},
		defaultSettings(),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		StartDate:  &monday,
		Days:       1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	// Зона по умолчанию America/Guyana (UTC-4): 09:00 local = 13:00 UTC
	assert.Equal(t, []string{"13:00"}, slotTimes(resp.Days[0]))
}

func TestExecute_NoWorkingHoursIsProviderNotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{
			provider: &domain.Provider{ID: 1, Timezone: "UTC"},
			hoursErr: scheduleRepo.ErrNoWorkingHours,
		},
		&fakeCatalogRepo{
			service: &domain.Service{ID: 5, ProviderID: 1, DurationMinutes: 30},
		},
		&fixedClock{now: monday},
		defaultSettings(),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{ProviderID: 1, ServiceID: 5})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_UnknownProvider(t *testing.T) {
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{providerErr: scheduleRepo.ErrProviderNotFound},
		&fakeCatalogRepo{},
		&fixedClock{now: monday},
		defaultSettings(),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{ProviderID: 99, ServiceID: 5})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(t, weekOpen(t, "09:00", "17:00"), 30, nil, monday)

	_, err := uc.Execute(context.Background(), Request{ProviderID: 0, ServiceID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{ProviderID: 1, ServiceID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{ProviderID: 1, ServiceID: 5, Days: 100})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
