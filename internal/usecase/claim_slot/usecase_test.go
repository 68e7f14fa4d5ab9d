package claim_slot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookitgy/booking-engine/internal/domain"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/integrations/notifier"
	"github.com/bookitgy/booking-engine/pkg/types"
)

// memBookingStore потокобезопасное in-memory хранилище броней.
// Атомарность check-then-insert обеспечивает memTxManager, который
// сериализует транзакции глобальным мьютексом - как serializable
// транзакции в БД.
type memBookingStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (s *memBookingStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *booking
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.bookings = append(s.bookings, &stored)

	result := stored
	return &result, nil
}

func (s *memBookingStore) GetActiveOverlapping(_ context.Context, providerID int64, start, end time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overlapping []*domain.Booking
	for _, b := range s.bookings {
		if b.ProviderID == providerID && b.IsActive() && b.Overlaps(start, end) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping, nil
}

type memTxManager struct {
	mu sync.Mutex
}

func (m *memTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

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

type recordingNotifier struct {
	mu     sync.Mutex
	events []*notifier.BookingEvent
}

func (n *recordingNotifier) PublishBookingEvent(_ context.Context, event *notifier.BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
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

// monday - фиксированный понедельник
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	uc       *UseCase
	store    *memBookingStore
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	store := &memBookingStore{}
	events := &recordingNotifier{}

	uc := NewUseCase(
		store,
		&fakeScheduleRepo{
			provider: &domain.Provider{ID: 1, UserID: 10, DisplayName: "Test", Timezone: "UTC"},
			schedule: weekOpen(t, "09:00", "17:00"),
		},
		&fakeCatalogRepo{
			service: &domain.Service{ID: 5, ProviderID: 1, Name: "Haircut", Price: 25, DurationMinutes: 60},
		},
		&memTxManager{},
		events,
		&fixedClock{now: now},
		Settings{
			GranularityMinutes: 30,
			MinLeadTimeMinutes: 30,
			ClaimTimeout:       5 * time.Second,
			DefaultTimezone:    "UTC",
		},
		nopLogger{},
	)

	return &testEnv{uc: uc, store: store, notifier: events}
}

func TestExecute_ClaimSucceeds(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))
	start := monday.Add(10 * time.Hour)

	resp, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1,
		ServiceID:  5,
		CustomerID: 100,
		StartTime:  start,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Booking)

	booking := resp.Booking
	assert.NotZero(t, booking.ID)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, start, booking.StartTime)
	assert.Equal(t, start.Add(time.Hour), booking.EndTime)

	// Снимок услуги заморожен на момент захвата
	assert.Equal(t, "Haircut", booking.ServiceName)
	assert.Equal(t, 25.0, booking.ServicePrice)
	assert.Equal(t, 60, booking.ServiceDurationMinutes)

	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, notifier.EventBookingConfirmed, env.notifier.events[0].Event)
}

func TestExecute_SlotTaken(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))
	start := monday.Add(10 * time.Hour)

	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 100, StartTime: start,
	})
	require.NoError(t, err)

	// Второй клиент на пересекающийся слот
	_, err = env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 200, StartTime: start.Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_BackToBackSlotsDoNotConflict(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))
	start := monday.Add(10 * time.Hour)

	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 100, StartTime: start,
	})
	require.NoError(t, err)

	// Следующий слот начинается ровно в момент конца предыдущего
	_, err = env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 200, StartTime: start.Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))

	// 16:30 + 60 минут выходит за закрытие в 17:00
	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 100, StartTime: monday.Add(16*time.Hour + 30*time.Minute),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	// До открытия
	_, err = env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 100, StartTime: monday.Add(8 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_MisalignedStartTime(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))

	// 10:17 не лежит на 30-минутной сетке от 09:00
	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 100, StartTime: monday.Add(10*time.Hour + 17*time.Minute),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_TooSoon(t *testing.T) {
	// Сейчас 09:45, lead 30 минут: слот 10:00 уже недоступен
	env := newTestEnv(t, monday.Add(9*time.Hour+45*time.Minute))

	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 5, CustomerID: 100, StartTime: monday.Add(10 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))
	env.uc.catalogRepo = &fakeCatalogRepo{err: assert.AnError}

	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 1, ServiceID: 99, CustomerID: 100, StartTime: monday.Add(10 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))
	env.uc.scheduleRepo = &fakeScheduleRepo{providerErr: scheduleRepo.ErrProviderNotFound}

	_, err := env.uc.Execute(context.Background(), Request{
		ProviderID: 99, ServiceID: 5, CustomerID: 100, StartTime: monday.Add(10 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_ConcurrentClaimsExactlyOneWinner(t *testing.T) {
	env := newTestEnv(t, monday.AddDate(0, 0, -1))
	start := monday.Add(10 * time.Hour)

	const claimers = 20

	var wg sync.WaitGroup
	results := make(chan error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()
			_, err := env.uc.Execute(context.Background(), Request{
				ProviderID: 1,
				ServiceID:  5,
				CustomerID: customerID,
				StartTime:  start,
			})
			results <- err
		}(int64(100 + i))
	}

	wg.Wait()
	close(results)

	var wins, taken int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one claim must win")
	assert.Equal(t, claimers-1, taken)
	assert.Len(t, env.store.bookings, 1)
}
