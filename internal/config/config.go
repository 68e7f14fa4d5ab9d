package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Notifier NotifierConfig `toml:"notifier"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort            int `toml:"http_port"`
	ReadTimeout         int `toml:"read_timeout"`          // секунды
	WriteTimeout        int `toml:"write_timeout"`         // секунды
	IdleTimeout         int `toml:"idle_timeout"`          // секунды
	ShutdownTimeout     int `toml:"shutdown_timeout"`      // секунды
	ClaimTimeoutSeconds int `toml:"claim_timeout_seconds"` // таймаут критической секции бронирования
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения для lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры генерации слотов и бронирования
// Гранулярность и минимальное время до брони - конфигурация, не константы
type BookingConfig struct {
	SlotGranularityMinutes int    `toml:"slot_granularity_minutes"`
	MinLeadTimeMinutes     int    `toml:"min_lead_time_minutes"`
	DefaultRangeDays       int    `toml:"default_range_days"`
	MaxRangeDays           int    `toml:"max_range_days"`
	DefaultTimezone        string `toml:"default_timezone"`
}

// NotifierConfig настройки клиента сервиса уведомлений
type NotifierConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
	Enabled bool   `toml:"enabled"`
}

// Load загружает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:            8080,
			ReadTimeout:         10,
			WriteTimeout:        10,
			IdleTimeout:         60,
			ShutdownTimeout:     15,
			ClaimTimeoutSeconds: 3,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking-engine",
		},
		Booking: BookingConfig{
			SlotGranularityMinutes: 30,
			MinLeadTimeMinutes:     30,
			DefaultRangeDays:       14,
			MaxRangeDays:           60,
			DefaultTimezone:        "America/Guyana",
		},
		Notifier: NotifierConfig{
			Timeout: 5,
		},
	}
}

func (c *Config) validate() error {
	if c.Booking.SlotGranularityMinutes <= 0 {
		return fmt.Errorf("config: booking.slot_granularity_minutes must be positive")
	}
	if c.Booking.MinLeadTimeMinutes < 0 {
		return fmt.Errorf("config: booking.min_lead_time_minutes must not be negative")
	}
	if c.Booking.DefaultRangeDays <= 0 || c.Booking.DefaultRangeDays > c.Booking.MaxRangeDays {
		return fmt.Errorf("config: booking.default_range_days must be in 1..%d", c.Booking.MaxRangeDays)
	}
	if _, err := time.LoadLocation(c.Booking.DefaultTimezone); err != nil {
		return fmt.Errorf("config: booking.default_timezone %q is not a valid IANA zone: %v",
			c.Booking.DefaultTimezone, err)
	}
	if c.Server.ClaimTimeoutSeconds <= 0 {
		return fmt.Errorf("config: server.claim_timeout_seconds must be positive")
	}
	return nil
}
