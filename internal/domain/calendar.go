package domain

import (
	"fmt"
	"time"
)

// Interval полуоткрытый интервал времени [Start, End) в UTC
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains лежит ли [start, end) целиком внутри интервала
func (i Interval) Contains(start, end time.Time) bool {
	return !start.Before(i.Start) && !end.After(i.End)
}

// OpenIntervalFor разворачивает правило рабочих часов в конкретный открытый
// интервал для даты. Год/месяц/день даты трактуются как дата в часовом поясе
// провайдера, результат возвращается в UTC.
// Возвращает nil, если провайдер закрыт в этот день или правила нет.
//
// Чистая функция от текущего состояния правил: никаких side effects
func OpenIntervalFor(schedule WeekSchedule, loc *time.Location, date time.Time) (*Interval, error) {
	rule := schedule.RuleFor(WeekdayMondayBased(date))
	if rule == nil || !rule.IsOpen() {
		return nil, nil
	}

	if !rule.OpenTime.IsBefore(rule.CloseTime) {
		return nil, fmt.Errorf("working hours rule for weekday %d has open_time %s >= close_time %s",
			rule.Weekday, rule.OpenTime, rule.CloseTime)
	}

	open, err := rule.OpenTime.At(date, loc)
	if err != nil {
		return nil, err
	}
	closeAt, err := rule.CloseTime.At(date, loc)
	if err != nil {
		return nil, err
	}

	return &Interval{Start: open.UTC(), End: closeAt.UTC()}, nil
}

// WeekdayMondayBased конвертирует time.Weekday (0=Sunday) в схему хранения
// правил (0=Monday .. 6=Sunday)
func WeekdayMondayBased(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
