package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookitgy/booking-engine/internal/domain"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/service/schedule/models"
)

// Service сервис управления недельным расписанием провайдера
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWorkingHours возвращает недельное расписание провайдера владельца.
// Для провайдера без строк расписания создаёт дефолтные правила
// (все дни закрыты) и возвращает их - редактор расписания всегда
// получает семь строк.
func (s *Service) GetWorkingHours(ctx context.Context, userID int64) (*models.WorkingHoursResponse, error) {
	s.logger.Info("GetWorkingHours: fetching schedule for user=%d", userID)

	provider, err := s.getOwnedProvider(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekSchedule, err := s.scheduleRepo.GetWorkingHours(ctx, provider.ID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrNoWorkingHours) {
			s.logger.Info("GetWorkingHours: provider=%d has no schedule, creating defaults", provider.ID)
			weekSchedule, err = s.scheduleRepo.CreateWorkingHours(ctx, domain.DefaultWeekSchedule(provider.ID))
			if err != nil {
				s.logger.Error("GetWorkingHours: failed to create defaults for provider=%d: %v", provider.ID, err)
				return nil, fmt.Errorf("%w: GetWorkingHours - failed to create defaults: %v", ErrInternal, err)
			}
		} else {
			s.logger.Error("GetWorkingHours: repository error for provider=%d: %v", provider.ID, err)
			return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
		}
	}

	return models.FromDomainSchedule(provider, weekSchedule), nil
}

// ReplaceWorkingHours полностью заменяет недельное расписание провайдера.
// Запрос обязан содержать ровно семь правил, по одному на каждый день недели.
// Замена не трогает существующие бронирования: они остаются как есть,
// даже если оказались вне новых рабочих часов.
func (s *Service) ReplaceWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("ReplaceWorkingHours: updating schedule for user=%d", req.UserID)

	provider, err := s.getOwnedProvider(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	rules, err := s.buildRules(provider.ID, req.Days)
	if err != nil {
		s.logger.Warn("ReplaceWorkingHours: invalid rules for provider=%d: %v", provider.ID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, rule := range rules {
			if err := s.scheduleRepo.UpsertWorkingHours(txCtx, rule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ReplaceWorkingHours: failed to upsert rules for provider=%d: %v", provider.ID, err)
		return nil, fmt.Errorf("%w: ReplaceWorkingHours - failed to upsert rules: %v", ErrInternal, err)
	}

	weekSchedule, err := s.scheduleRepo.GetWorkingHours(ctx, provider.ID)
	if err != nil {
		s.logger.Error("ReplaceWorkingHours: failed to re-read schedule for provider=%d: %v", provider.ID, err)
		return nil, fmt.Errorf("%w: ReplaceWorkingHours - failed to re-read schedule: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWorkingHours: schedule replaced for provider=%d", provider.ID)
	return models.FromDomainSchedule(provider, weekSchedule), nil
}

// buildRules валидирует и конвертирует семь DTO правил в domain модели
func (s *Service) buildRules(providerID int64, days []models.DayRule) ([]*domain.WorkingHoursRule, error) {
	if len(days) != domain.DaysPerWeek {
		return nil, fmt.Errorf("%w: expected %d day rules, got %d", ErrInvalidInput, domain.DaysPerWeek, len(days))
	}

	seen := make(map[int]bool, domain.DaysPerWeek)
	rules := make([]*domain.WorkingHoursRule, 0, domain.DaysPerWeek)

	for _, day := range days {
		if day.Weekday < 0 || day.Weekday >= domain.DaysPerWeek {
			return nil, fmt.Errorf("%w: weekday must be 0..6, got %d", ErrInvalidInput, day.Weekday)
		}
		if seen[day.Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = true

		rule, err := day.ToDomainRule(providerID)
		if err != nil {
			return nil, fmt.Errorf("%w: weekday %d: %v", ErrInvalidInput, day.Weekday, err)
		}

		if !rule.IsClosed && !rule.OpenTime.IsBefore(rule.CloseTime) {
			return nil, fmt.Errorf("%w: weekday %d: openTime %s must be before closeTime %s",
				ErrInvalidTimeRange, day.Weekday, rule.OpenTime, rule.CloseTime)
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

// getOwnedProvider находит провайдера, которым владеет пользователь
func (s *Service) getOwnedProvider(ctx context.Context, userID int64) (*domain.Provider, error) {
	provider, err := s.scheduleRepo.GetProviderByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			s.logger.Warn("getOwnedProvider: user=%d has no provider", userID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("getOwnedProvider: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: getOwnedProvider - repository error: %v", ErrInternal, err)
	}
	return provider, nil
}
