package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookitgy/booking-engine/internal/domain"
	catalogRepo "github.com/bookitgy/booking-engine/internal/infra/storage/catalog"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/service/catalog/models"
)

// Service сервис каталога услуг провайдера
type Service struct {
	catalogRepo  CatalogRepository
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo:  catalogRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// List возвращает все услуги провайдера
// Публичная операция - доступна без аутентификации
func (s *Service) List(ctx context.Context, providerID int64) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services for provider=%d", providerID)

	if _, err := s.scheduleRepo.GetProvider(ctx, providerID); err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		s.logger.Error("List: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	services, err := s.catalogRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		s.logger.Error("List: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// Create создаёт услугу в каталоге провайдера владельца
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for user=%d", req.Name, req.UserID)

	provider, err := s.getOwnedProvider(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	service := &domain.Service{
		ProviderID:      provider.ID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	}

	if err := s.validateService(service); err != nil {
		s.logger.Warn("Create: invalid service for provider=%d: %v", provider.ID, err)
		return nil, err
	}

	created, err := s.catalogRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error for provider=%d: %v", provider.ID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: service id=%d created for provider=%d", created.ID, provider.ID)
	return models.FromDomainService(created), nil
}

// Update частично обновляет услугу провайдера владельца
func (s *Service) Update(ctx context.Context, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d for user=%d", serviceID, req.UserID)

	provider, err := s.getOwnedProvider(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	service, err := s.catalogRepo.GetByProviderAndID(ctx, provider.ID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}

	if err := s.validateService(service); err != nil {
		s.logger.Warn("Update: invalid service id=%d: %v", serviceID, err)
		return nil, err
	}

	// Изменение длительности действует только на будущие брони:
	// у существующих интервал заморожен при создании
	if err := s.catalogRepo.Update(ctx, service); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: service id=%d updated", serviceID)
	return models.FromDomainService(service), nil
}

// Delete удаляет услугу из каталога провайдера владельца
// Существующие брони сохраняют снимок услуги и не затрагиваются
func (s *Service) Delete(ctx context.Context, serviceID int64, userID int64) error {
	s.logger.Info("Delete: deleting service id=%d for user=%d", serviceID, userID)

	provider, err := s.getOwnedProvider(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.catalogRepo.Delete(ctx, provider.ID, serviceID); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("Delete: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: service id=%d deleted from provider=%d", serviceID, provider.ID)
	return nil
}

// validateService проверяет инварианты услуги
func (s *Service) validateService(service *domain.Service) error {
	if service.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if service.DurationMinutes < domain.MinServiceDurationMinutes || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	return nil
}

// getOwnedProvider находит провайдера, которым владеет пользователь
func (s *Service) getOwnedProvider(ctx context.Context, userID int64) (*domain.Provider, error) {
	provider, err := s.scheduleRepo.GetProviderByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderNotFound) {
			s.logger.Warn("getOwnedProvider: user=%d has no provider", userID)
			return nil, ErrAccessDenied
		}
		s.logger.Error("getOwnedProvider: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: getOwnedProvider - repository error: %v", ErrInternal, err)
	}
	return provider, nil
}
