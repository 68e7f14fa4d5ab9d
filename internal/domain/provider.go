package domain

import "time"

// Provider поставщик услуг на маркетплейсе.
// Timezone - IANA-зона, в которой трактуются правила рабочих часов;
// сами бронирования хранятся в UTC
type Provider struct {
	ID          int64
	UserID      int64
	DisplayName string
	Timezone    string
	CreatedAt   time.Time
}

// Location возвращает *time.Location провайдера
// Валидность зоны гарантируется при записи, поэтому ошибка здесь означает
// повреждённые данные
func (p *Provider) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}

// Service услуга провайдера, доступная для записи
type Service struct {
	ID              int64
	ProviderID      int64
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
