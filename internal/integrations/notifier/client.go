package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для сервиса уведомлений
// Уведомления - внешний collaborator: их недоступность никогда не должна
// ронять бронирование, поэтому все публичные методы применяют graceful
// degradation и возвращают ошибку только для логирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	enabled    bool
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
// При enabled=false все вызовы становятся no-op
func NewClient(baseURL string, timeout time.Duration, enabled bool, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		enabled: enabled,
		log:     log,
	}
}

// PublishBookingEvent отправляет событие бронирования
// Ошибка отправки логируется и не пробрасывается выше: бронирование уже
// зафиксировано в БД, уведомление - best effort
func (c *Client) PublishBookingEvent(ctx context.Context, event *BookingEvent) {
	if !c.enabled {
		return
	}

	if err := c.post(ctx, "/internal/notifications/booking-events", event); err != nil {
		c.log.Error("Notifier unavailable, dropping %s event for booking id=%d: %v",
			event.Event, event.BookingID, err)
		return
	}

	c.log.Info("Published %s event for booking id=%d", event.Event, event.BookingID)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
