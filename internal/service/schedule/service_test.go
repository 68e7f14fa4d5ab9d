package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookitgy/booking-engine/internal/domain"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/service/schedule/models"
)

type fakeScheduleRepo struct {
	provider *domain.Provider
	rules    map[int]*domain.WorkingHoursRule
}

func newFakeScheduleRepo(provider *domain.Provider) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		provider: provider,
		rules:    make(map[int]*domain.WorkingHoursRule),
	}
}

func (f *fakeScheduleRepo) GetProvider(_ context.Context, providerID int64) (*domain.Provider, error) {
	if f.provider == nil || f.provider.ID != providerID {
		return nil, scheduleRepo.ErrProviderNotFound
	}
	return f.provider, nil
}

func (f *fakeScheduleRepo) GetProviderByUserID(_ context.Context, userID int64) (*domain.Provider, error) {
	if f.provider == nil || f.provider.UserID != userID {
		return nil, scheduleRepo.ErrProviderNotFound
	}
	return f.provider, nil
}

func (f *fakeScheduleRepo) GetWorkingHours(_ context.Context, _ int64) (domain.WeekSchedule, error) {
	if len(f.rules) == 0 {
		return nil, scheduleRepo.ErrNoWorkingHours
	}
	schedule := make(domain.WeekSchedule, 0, len(f.rules))
	for weekday := 0; weekday < domain.DaysPerWeek; weekday++ {
		if rule, ok := f.rules[weekday]; ok {
			schedule = append(schedule, rule)
		}
	}
	return schedule, nil
}

func (f *fakeScheduleRepo) CreateWorkingHours(_ context.Context, schedule domain.WeekSchedule) (domain.WeekSchedule, error) {
	for _, rule := range schedule {
		f.rules[rule.Weekday] = rule
	}
	return schedule, nil
}

func (f *fakeScheduleRepo) UpsertWorkingHours(_ context.Context, rule *domain.WorkingHoursRule) error {
	f.rules[rule.Weekday] = rule
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testProvider() *domain.Provider {
	return &domain.Provider{ID: 1, UserID: 10, DisplayName: "Test", Timezone: "America/Guyana"}
}

func fullWeek(openDays ...int) []models.DayRule {
	open := make(map[int]bool, len(openDays))
	for _, d := range openDays {
		open[d] = true
	}

	days := make([]models.DayRule, 0, domain.DaysPerWeek)
	for weekday := 0; weekday < domain.DaysPerWeek; weekday++ {
		days = append(days, models.DayRule{
			Weekday:   weekday,
			IsClosed:  !open[weekday],
			OpenTime:  "09:00",
			CloseTime: "17:00",
		})
	}
	return days
}

func TestGetWorkingHours_CreatesDefaultsForNewProvider(t *testing.T) {
	repo := newFakeScheduleRepo(testProvider())
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})

	resp, err := svc.GetWorkingHours(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Days, domain.DaysPerWeek)
	assert.Equal(t, "America/Guyana", resp.Timezone)

	// Дефолт: все дни закрыты с подсказкой 09:00-17:00
	for _, day := range resp.Days {
		assert.True(t, day.IsClosed)
		assert.Equal(t, "09:00", day.OpenTime)
		assert.Equal(t, "17:00", day.CloseTime)
	}

	// Дефолты материализованы, повторный запрос читает их из хранилища
	assert.Len(t, repo.rules, domain.DaysPerWeek)
}

func TestGetWorkingHours_UnknownUser(t *testing.T) {
	repo := newFakeScheduleRepo(testProvider())
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})

	_, err := svc.GetWorkingHours(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestReplaceWorkingHours_ReplacesAllSevenDays(t *testing.T) {
	repo := newFakeScheduleRepo(testProvider())
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})

	resp, err := svc.ReplaceWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: 10,
		Days:   fullWeek(0, 1, 2, 3, 4), // будни открыты
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, domain.DaysPerWeek)

	assert.False(t, resp.Days[0].IsClosed)
	assert.True(t, resp.Days[5].IsClosed)
	assert.True(t, resp.Days[6].IsClosed)
}

func TestReplaceWorkingHours_RequiresSevenRules(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(testProvider()), passthroughTxManager{}, nopLogger{})

	_, err := svc.ReplaceWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: 10,
		Days:   fullWeek()[:5],
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceWorkingHours_RejectsDuplicateWeekday(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(testProvider()), passthroughTxManager{}, nopLogger{})

	days := fullWeek()
	days[6].Weekday = 0

	_, err := svc.ReplaceWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: 10,
		Days:   days,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceWorkingHours_RejectsInvertedInterval(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(testProvider()), passthroughTxManager{}, nopLogger{})

	days := fullWeek(0)
	days[0].OpenTime = "17:00"
	days[0].CloseTime = "09:00"

	_, err := svc.ReplaceWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: 10,
		Days:   days,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestReplaceWorkingHours_ClosedDayAllowsAnyTimes(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(testProvider()), passthroughTxManager{}, nopLogger{})

	// Закрытый день с инвертированными временами не валидируется на порядок
	days := fullWeek()
	days[0].OpenTime = "17:00"
	days[0].CloseTime = "09:00"

	_, err := svc.ReplaceWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: 10,
		Days:   days,
	})
	assert.NoError(t, err)
}

func TestReplaceWorkingHours_RejectsMalformedTime(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(testProvider()), passthroughTxManager{}, nopLogger{})

	days := fullWeek(0)
	days[0].OpenTime = "25:00"

	_, err := svc.ReplaceWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: 10,
		Days:   days,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
