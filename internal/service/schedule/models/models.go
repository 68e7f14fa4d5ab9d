package models

import (
	"github.com/bookitgy/booking-engine/internal/domain"
	"github.com/bookitgy/booking-engine/pkg/types"
)

// Request модели

// DayRule правило рабочих часов одного дня недели
type DayRule struct {
	Weekday   int    `json:"weekday"` // 0=Понедельник .. 6=Воскресенье
	IsClosed  bool   `json:"isClosed"`
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "17:00"
}

// UpdateWorkingHoursRequest запрос на полную замену недельного расписания
type UpdateWorkingHoursRequest struct {
	UserID int64     `json:"userId"`
	Days   []DayRule `json:"days"`
}

// Response модели

// WorkingHoursResponse ответ с недельным расписанием провайдера
type WorkingHoursResponse struct {
	ProviderID int64     `json:"providerId"`
	Timezone   string    `json:"timezone"`
	Days       []DayRule `json:"days"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain расписание в DTO
func FromDomainSchedule(provider *domain.Provider, schedule domain.WeekSchedule) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		ProviderID: provider.ID,
		Timezone:   provider.Timezone,
		Days:       make([]DayRule, 0, len(schedule)),
	}

	for weekday := 0; weekday < domain.DaysPerWeek; weekday++ {
		rule := schedule.RuleFor(weekday)
		if rule == nil {
			continue
		}
		resp.Days = append(resp.Days, DayRule{
			Weekday:   rule.Weekday,
			IsClosed:  rule.IsClosed,
			OpenTime:  rule.OpenTime.String(),
			CloseTime: rule.CloseTime.String(),
		})
	}

	return resp
}

// ToDomainRule конвертирует DTO правило в domain модель
func (d *DayRule) ToDomainRule(providerID int64) (*domain.WorkingHoursRule, error) {
	openTime, err := types.NewTimeStringFromString(d.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(d.CloseTime)
	if err != nil {
		return nil, err
	}

	return &domain.WorkingHoursRule{
		ProviderID: providerID,
		Weekday:    d.Weekday,
		IsClosed:   d.IsClosed,
		OpenTime:   openTime,
		CloseTime:  closeTime,
	}, nil
}
