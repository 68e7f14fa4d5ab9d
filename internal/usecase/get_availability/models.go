package get_availability

import "time"

// Request параметры запроса доступных слотов
type Request struct {
	ProviderID int64
	ServiceID  int64
	StartDate  *time.Time // nil - сегодня в таймзоне провайдера
	Days       int        // 0 - значение по умолчанию из конфигурации
}

// DayAvailability слоты одной календарной даты провайдера
type DayAvailability struct {
	Date  time.Time   // полночь даты в таймзоне провайдера
	Slots []time.Time // времена начала в UTC, по возрастанию
}

// Response доступные слоты по датам диапазона
type Response struct {
	ProviderID      int64
	ServiceID       int64
	DurationMinutes int
	Days            []DayAvailability
}
