package domain

import (
	"github.com/bookitgy/booking-engine/pkg/types"
)

// WorkingHoursRule повторяющееся правило рабочих часов для одного дня недели.
// Weekday: 0=Пн .. 6=Вс. Правила переключаются, но не удаляются:
// у провайдера всегда ровно семь строк после онбординга
type WorkingHoursRule struct {
	ID         int64
	ProviderID int64
	Weekday    int
	IsClosed   bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
}

// IsOpen можно ли генерировать слоты в этот день недели
func (r *WorkingHoursRule) IsOpen() bool {
	return !r.IsClosed && !r.OpenTime.IsZero() && !r.CloseTime.IsZero()
}

// WeekSchedule семь правил рабочих часов, индексированных по weekday
type WeekSchedule []*WorkingHoursRule

// RuleFor возвращает правило для weekday (0=Пн..6=Вс) или nil
func (s WeekSchedule) RuleFor(weekday int) *WorkingHoursRule {
	for _, rule := range s {
		if rule.Weekday == weekday {
			return rule
		}
	}
	return nil
}

// DefaultWeekSchedule возвращает дефолтные правила для нового провайдера:
// все дни закрыты, времена 09:00-17:00 (как подсказка для редактора расписания)
func DefaultWeekSchedule(providerID int64) WeekSchedule {
	schedule := make(WeekSchedule, 0, DaysPerWeek)
	for weekday := 0; weekday < DaysPerWeek; weekday++ {
		schedule = append(schedule, &WorkingHoursRule{
			ProviderID: providerID,
			Weekday:    weekday,
			IsClosed:   true,
			OpenTime:   DefaultOpenTime,
			CloseTime:  DefaultCloseTime,
		})
	}
	return schedule
}
