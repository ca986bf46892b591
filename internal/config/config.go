package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Источники каталога кортов
const (
	CourtSourceHTTP = "http"
	CourtSourceFile = "file"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Auth           AuthConfig           `toml:"auth"`
	CourtDirectory CourtDirectoryConfig `toml:"court_directory"`
	Notifications  NotificationsConfig  `toml:"notifications"`
	Scheduling     SchedulingConfig     `toml:"scheduling"`
}

// ServerConfig настройки HTTP-сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки хранилища
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// CourtDirectoryConfig источник данных о кортах
type CourtDirectoryConfig struct {
	Source  string `toml:"source"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
	File    string `toml:"file"`
}

// NotificationsConfig настройки публикации событий в RabbitMQ
type NotificationsConfig struct {
	Enabled        bool   `toml:"enabled"`
	AMQPURL        string `toml:"amqp_url"`
	Exchange       string `toml:"exchange"`
	PublishTimeout int    `toml:"publish_timeout"`
}

// SchedulingConfig правила расписания
type SchedulingConfig struct {
	CancellationWindowMinutes int    `toml:"cancellation_window_minutes"`
	Timezone                  string `toml:"timezone"`
	MaxRangeDays              int    `toml:"max_range_days"`
}

// CancellationWindow окно бесплатной отмены
func (c SchedulingConfig) CancellationWindow() time.Duration {
	return time.Duration(c.CancellationWindowMinutes) * time.Minute
}

// Location часовой пояс кортов
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load читает конфигурацию из TOML-файла.
// Секреты переопределяются переменными окружения; рядом с конфигом может лежать .env.
func Load(path string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envPath, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
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
			ServiceName: "court-scheduler",
		},
		CourtDirectory: CourtDirectoryConfig{
			Source:  CourtSourceHTTP,
			Timeout: 5,
		},
		Notifications: NotificationsConfig{
			Exchange:       "court.events",
			PublishTimeout: 3,
		},
		Scheduling: SchedulingConfig{
			CancellationWindowMinutes: 30,
			Timezone:                  "UTC",
			MaxRangeDays:              7,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("NOTIFICATIONS_AMQP_URL"); v != "" {
		c.Notifications.AMQPURL = v
	}
}

// applyDefaults восстанавливает значения, обнулённые в файле
func (c *Config) applyDefaults() {
	def := Default()
	if c.Metrics.Path == "" {
		c.Metrics.Path = def.Metrics.Path
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = def.Metrics.ServiceName
	}
	if c.Scheduling.Timezone == "" {
		c.Scheduling.Timezone = def.Scheduling.Timezone
	}
	if c.Scheduling.MaxRangeDays <= 0 {
		c.Scheduling.MaxRangeDays = def.Scheduling.MaxRangeDays
	}
	if c.Notifications.PublishTimeout <= 0 {
		c.Notifications.PublishTimeout = def.Notifications.PublishTimeout
	}
	if c.CourtDirectory.Timeout <= 0 {
		c.CourtDirectory.Timeout = def.CourtDirectory.Timeout
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret (or AUTH_JWT_SECRET) is required", ErrInvalidConfig)
	}

	switch c.CourtDirectory.Source {
	case CourtSourceHTTP:
		if c.CourtDirectory.URL == "" {
			return fmt.Errorf("%w: court_directory.url is required for http source", ErrInvalidConfig)
		}
	case CourtSourceFile:
		if c.CourtDirectory.File == "" {
			return fmt.Errorf("%w: court_directory.file is required for file source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown court_directory.source %q", ErrInvalidConfig, c.CourtDirectory.Source)
	}

	if c.Notifications.Enabled && c.Notifications.AMQPURL == "" {
		return fmt.Errorf("%w: notifications.amqp_url is required when notifications are enabled", ErrInvalidConfig)
	}

	if c.Scheduling.CancellationWindowMinutes < 0 {
		return fmt.Errorf("%w: scheduling.cancellation_window_minutes must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}
