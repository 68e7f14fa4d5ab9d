package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookitgy/booking-engine/pkg/types"
)

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func openRule(t *testing.T, weekday int, open, close string) *WorkingHoursRule {
	t.Helper()
	return &WorkingHoursRule{
		ProviderID: 1,
		Weekday:    weekday,
		IsClosed:   false,
		OpenTime:   mustTime(t, open),
		CloseTime:  mustTime(t, close),
	}
}

func TestWeekdayMondayBased(t *testing.T) {
	// 2025-10-13 - понедельник
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayMondayBased(monday))

	sunday := monday.AddDate(0, 0, 6)
	assert.Equal(t, 6, WeekdayMondayBased(sunday))
}

func TestOpenIntervalFor_OpenDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Guyana")
	require.NoError(t, err)

	schedule := WeekSchedule{openRule(t, 0, "09:00", "17:00")}
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, loc)

	interval, err := OpenIntervalFor(schedule, loc, monday)
	require.NoError(t, err)
	require.NotNil(t, interval)

	// Guyana UTC-4
	assert.Equal(t, time.Date(2025, 10, 13, 13, 0, 0, 0, time.UTC), interval.Start)
	assert.Equal(t, time.Date(2025, 10, 13, 21, 0, 0, 0, time.UTC), interval.End)
}

func TestOpenIntervalFor_ClosedDay(t *testing.T) {
	schedule := WeekSchedule{
		{ProviderID: 1, Weekday: 0, IsClosed: true, OpenTime: mustTime(t, "09:00"), CloseTime: mustTime(t, "17:00")},
	}
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	interval, err := OpenIntervalFor(schedule, time.UTC, monday)
	require.NoError(t, err)
	assert.Nil(t, interval)
}

func TestOpenIntervalFor_NoRuleForWeekday(t *testing.T) {
	schedule := WeekSchedule{openRule(t, 1, "09:00", "17:00")}
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	interval, err := OpenIntervalFor(schedule, time.UTC, monday)
	require.NoError(t, err)
	assert.Nil(t, interval)
}

func TestOpenIntervalFor_InvalidRule(t *testing.T) {
	schedule := WeekSchedule{openRule(t, 0, "17:00", "09:00")}
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	_, err := OpenIntervalFor(schedule, time.UTC, monday)
	assert.Error(t, err)
}

func TestBooking_Overlaps(t *testing.T) {
	booking := &Booking{
		StartTime: time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 10, 13, 11, 0, 0, 0, time.UTC),
	}

	at := func(hour, min int) time.Time {
		return time.Date(2025, 10, 13, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "identical interval", start: at(10, 0), end: at(11, 0), want: true},
		{name: "starts inside", start: at(10, 30), end: at(11, 30), want: true},
		{name: "ends inside", start: at(9, 30), end: at(10, 30), want: true},
		{name: "covers booking", start: at(9, 0), end: at(12, 0), want: true},
		{name: "back to back before", start: at(9, 0), end: at(10, 0), want: false},
		{name: "back to back after", start: at(11, 0), end: at(12, 0), want: false},
		{name: "disjoint", start: at(12, 0), end: at(13, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))
		})
	}
}

func TestDefaultWeekSchedule(t *testing.T) {
	schedule := DefaultWeekSchedule(42)
	require.Len(t, schedule, DaysPerWeek)

	for weekday := 0; weekday < DaysPerWeek; weekday++ {
		rule := schedule.RuleFor(weekday)
		require.NotNil(t, rule)
		assert.True(t, rule.IsClosed)
		assert.Equal(t, int64(42), rule.ProviderID)
		assert.Equal(t, "09:00", rule.OpenTime.String())
		assert.Equal(t, "17:00", rule.CloseTime.String())
	}
}
