package domain

import "github.com/bookitgy/booking-engine/pkg/types"

// Default working-hours values for newly onboarded providers
const (
	DefaultOpenTime  types.TimeString = "09:00"
	DefaultCloseTime types.TimeString = "17:00"
)

// Business validation constants
const (
	DaysPerWeek = 7

	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours

	MaxServiceNameLength        = 200
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих интервал
// Используются при проверке пересечений и генерации слотов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, освобождающие интервал
var TerminalStatuses = []BookingStatus{
	StatusCancelledByCustomer,
	StatusCancelledByProvider,
	StatusCompleted,
	StatusNoShow,
}
