package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig возвращается при некорректной конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Database     DatabaseConfig     `toml:"database"`
	Tenants      []TenantConfig     `toml:"tenants"`
	Availability AvailabilityConfig `toml:"availability"`
	Redis        RedisConfig        `toml:"redis"`
	Kafka        KafkaConfig        `toml:"kafka"`
	Tracing      TracingConfig      `toml:"tracing"`
}

// ServerConfig настройки HTTP сервера. Таймауты в секундах.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig общие параметры подключения к PostgreSQL.
// База арендатора задается в [[tenants]].
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения к базе dbName
func (d DatabaseConfig) DSN(dbName string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + dbName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// TenantConfig арендатор: своя база и часовой пояс бизнеса
type TenantConfig struct {
	ID       string `toml:"id"`
	DBName   string `toml:"db_name"`
	DSN      string `toml:"dsn"` // переопределяет [database] целиком
	Timezone string `toml:"timezone"`
}

// AvailabilityConfig настройки расчета доступности
type AvailabilityConfig struct {
	PeriodBreakPolicy string `toml:"period_break_policy"` // own | inherit_weekly
	MaxRangeDays      int    `toml:"max_range_days"`
	Concurrency       int    `toml:"concurrency"`
}

// RedisConfig кеш рабочих окон
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// KafkaConfig публикация событий о записях. Пустой brokers отключает публикацию.
type KafkaConfig struct {
	Brokers       []string `toml:"brokers"`
	BookedTopic   string   `toml:"booked_topic"`
	CanceledTopic string   `toml:"canceled_topic"`
	BatchTimeout  int      `toml:"batch_timeout_ms"`
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// Load загружает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки TOML
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "availability_service"
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	for i := range c.Tenants {
		if c.Tenants[i].Timezone == "" {
			c.Tenants[i].Timezone = "UTC"
		}
	}

	if c.Availability.PeriodBreakPolicy == "" {
		c.Availability.PeriodBreakPolicy = "own"
	}
	if c.Availability.MaxRangeDays == 0 {
		c.Availability.MaxRangeDays = 31
	}
	if c.Availability.Concurrency == 0 {
		c.Availability.Concurrency = 4
	}

	if c.Redis.TTL == 0 {
		c.Redis.TTL = 300
	}

	if c.Kafka.BookedTopic == "" {
		c.Kafka.BookedTopic = "appointment.booked"
	}
	if c.Kafka.CanceledTopic == "" {
		c.Kafka.CanceledTopic = "appointment.canceled"
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = 10
	}

	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if len(c.Tenants) == 0 {
		return fmt.Errorf("%w: at least one [[tenants]] entry is required", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Tenants))
	for _, t := range c.Tenants {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("%w: tenant id is required", ErrInvalidConfig)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate tenant %q", ErrInvalidConfig, t.ID)
		}
		seen[t.ID] = struct{}{}

		if t.DSN == "" && t.DBName == "" {
			return fmt.Errorf("%w: tenant %q needs db_name or dsn", ErrInvalidConfig, t.ID)
		}
		if _, err := time.LoadLocation(t.Timezone); err != nil {
			return fmt.Errorf("%w: tenant %q timezone %q: %v", ErrInvalidConfig, t.ID, t.Timezone, err)
		}
	}

	switch c.Availability.PeriodBreakPolicy {
	case "own", "inherit_weekly":
	default:
		return fmt.Errorf("%w: availability.period_break_policy must be own or inherit_weekly", ErrInvalidConfig)
	}
	if c.Availability.MaxRangeDays < 1 {
		return fmt.Errorf("%w: availability.max_range_days must be positive", ErrInvalidConfig)
	}
	if c.Availability.Concurrency < 1 {
		return fmt.Errorf("%w: availability.concurrency must be positive", ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when tracing is enabled", ErrInvalidConfig)
	}

	return nil
}

// TenantDSN строка подключения арендатора
func (c *Config) TenantDSN(t TenantConfig) string {
	if t.DSN != "" {
		return t.DSN
	}
	return c.Database.DSN(t.DBName)
}

// ConnMaxLifetimeDuration время жизни соединения
func (d DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TTLDuration время жизни записи кеша
func (r RedisConfig) TTLDuration() time.Duration {
	return time.Duration(r.TTL) * time.Second
}
