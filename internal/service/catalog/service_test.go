package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookitgy/booking-engine/internal/domain"
	catalogRepo "github.com/bookitgy/booking-engine/internal/infra/storage/catalog"
	scheduleRepo "github.com/bookitgy/booking-engine/internal/infra/storage/schedule"
	"github.com/bookitgy/booking-engine/internal/service/catalog/models"
	"github.com/bookitgy/booking-engine/pkg/ptr"
)

type fakeCatalogRepo struct {
	nextID   int64
	services map[int64]*domain.Service
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{services: make(map[int64]*domain.Service)}
}

func (f *fakeCatalogRepo) Create(_ context.Context, service *domain.Service) (*domain.Service, error) {
	f.nextID++
	stored := *service
	stored.ID = f.nextID
	f.services[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (f *fakeCatalogRepo) GetByProviderAndID(_ context.Context, providerID, serviceID int64) (*domain.Service, error) {
	s, ok := f.services[serviceID]
	if !ok || s.ProviderID != providerID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeCatalogRepo) GetByProviderID(_ context.Context, providerID int64) ([]*domain.Service, error) {
	var out []*domain.Service
	for _, s := range f.services {
		if s.ProviderID == providerID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) Update(_ context.Context, service *domain.Service) error {
	if _, ok := f.services[service.ID]; !ok {
		return catalogRepo.ErrServiceNotFound
	}
	stored := *service
	f.services[service.ID] = &stored
	return nil
}

func (f *fakeCatalogRepo) Delete(_ context.Context, providerID, serviceID int64) error {
	s, ok := f.services[serviceID]
	if !ok || s.ProviderID != providerID {
		return catalogRepo.ErrServiceNotFound
	}
	delete(f.services, serviceID)
	return nil
}

type fakeScheduleRepo struct {
	provider *domain.Provider
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService() (*Service, *fakeCatalogRepo) {
	repo := newFakeCatalogRepo()
	svc := NewService(
		repo,
		&fakeScheduleRepo{provider: &domain.Provider{ID: 1, UserID: 10, Timezone: "UTC"}},
		nopLogger{},
	)
	return svc, repo
}

func TestCreate_Valid(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		UserID:          10,
		Name:            "  Haircut  ",
		Price:           25,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, int64(1), resp.ProviderID)
	assert.Equal(t, "Haircut", resp.Name) // пробелы обрезаны
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{name: "empty name", req: models.CreateServiceRequest{UserID: 10, Name: "   ", Price: 10, DurationMinutes: 30}},
		{name: "negative price", req: models.CreateServiceRequest{UserID: 10, Name: "X", Price: -1, DurationMinutes: 30}},
		{name: "duration too short", req: models.CreateServiceRequest{UserID: 10, Name: "X", Price: 10, DurationMinutes: 1}},
		{name: "duration too long", req: models.CreateServiceRequest{UserID: 10, Name: "X", Price: 10, DurationMinutes: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_NonOwnerDenied(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		UserID:          999,
		Name:            "Haircut",
		Price:           25,
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		UserID: 10, Name: "Haircut", Price: 25, DurationMinutes: 60,
	})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), created.ID, &models.UpdateServiceRequest{
		UserID: 10,
		Price:  ptr.Ptr(30.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, resp.Price)
	assert.Equal(t, "Haircut", resp.Name)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), 42, &models.UpdateServiceRequest{
		UserID: 10,
		Name:   ptr.Ptr("New"),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		UserID: 10, Name: "Haircut", Price: 25, DurationMinutes: 60,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, 10))
	assert.Empty(t, repo.services)

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, 10), ErrServiceNotFound)
}

func TestList_UnknownProvider(t *testing.T) {
	svc := NewService(newFakeCatalogRepo(), &fakeScheduleRepo{}, nopLogger{})

	_, err := svc.List(context.Background(), 77)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestList_ReturnsServices(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		UserID: 10, Name: "Haircut", Price: 25, DurationMinutes: 60,
	})
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, resp.Services, 1)
}
