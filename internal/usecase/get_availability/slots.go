package get_availability

import (
	"time"

	"github.com/bookitgy/booking-engine/internal/domain"
)

// enumerateSlots строит слоты одного дня: кандидаты идут с шагом granularity
// от открытия, слот попадает в результат если услуга целиком помещается до
// закрытия, начало не раньше minStart и нет пересечения с активными бронями.
func enumerateSlots(
	interval domain.Interval,
	durationMinutes int,
	granularityMinutes int,
	minStart time.Time,
	bookings []*domain.Booking,
) []time.Time {
	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(granularityMinutes) * time.Minute

	var slots []time.Time

	for candidate := interval.Start; !candidate.Add(duration).After(interval.End); candidate = candidate.Add(step) {
		if candidate.Before(minStart) {
			continue
		}

		if hasConflict(bookings, candidate, candidate.Add(duration)) {
			continue
		}

		slots = append(slots, candidate)
	}

	return slots
}

// hasConflict проверяет пересечение интервала [start, end) с активными бронями
func hasConflict(bookings []*domain.Booking, start, end time.Time) bool {
	for _, booking := range bookings {
		if booking.Overlaps(start, end) {
			return true
		}
	}

	return false
}
