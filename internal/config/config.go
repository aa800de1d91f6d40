package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Events     EventsConfig
	Telemetry  TelemetryConfig
	CORS       CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
	DeviceExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the fallback tolerance applied when a position has
// no policy of its own, and the exit window mode.
type AttendanceConfig struct {
	DefaultTolerance window.TolerancePolicy
	StrictExitWindow bool
	CronInterval     time.Duration
}

// EventsConfig points at the queue committed events are published to. An
// empty SQSQueueURL disables publishing.
type EventsConfig struct {
	SQSQueueURL string
	AWSRegion   string
	AWSEndpoint string
}

type TelemetryConfig struct {
	ServiceName  string
	Exporter     string
	OTLPEndpoint string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads .env when present and builds the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	accessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour)
	if err != nil {
		return nil, err
	}
	deviceExpiration, err := getEnvDuration("JWT_DEVICE_EXPIRATION_TIME", 90*24*time.Hour)
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
		DeviceExpiration: deviceExpiration,
	}

	// Attendance configuration
	tolerance := window.DefaultTolerancePolicy()
	ints := []struct {
		key string
		dst *int
	}{
		{"ATTENDANCE_LATE_GRACE_MINUTES", &tolerance.LateGraceMinutes},
		{"ATTENDANCE_ABSENCE_THRESHOLD_MINUTES", &tolerance.AbsenceThresholdMinutes},
		{"ATTENDANCE_EARLY_ARRIVAL_WINDOW_MINUTES", &tolerance.EarlyArrivalWindowMinutes},
		{"ATTENDANCE_DEPARTURE_GRACE_BEFORE_MINUTES", &tolerance.DepartureGraceBeforeMinutes},
		{"ATTENDANCE_DEPARTURE_GRACE_AFTER_MINUTES", &tolerance.DepartureGraceAfterMinutes},
	}
	for _, v := range ints {
		if *v.dst, err = getEnvInt(v.key, *v.dst); err != nil {
			return nil, err
		}
	}

	strictExit, err := getEnvBool("ATTENDANCE_STRICT_EXIT_WINDOW", false)
	if err != nil {
		return nil, err
	}
	cronInterval, err := getEnvDuration("ATTENDANCE_CRON_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		DefaultTolerance: tolerance,
		StrictExitWindow: strictExit,
		CronInterval:     cronInterval,
	}

	// Events configuration
	config.Events = EventsConfig{
		SQSQueueURL: getEnv("EVENTS_SQS_QUEUE_URL", ""),
		AWSRegion:   getEnv("AWS_REGION", "ap-southeast-1"),
		AWSEndpoint: getEnv("AWS_ENDPOINT", ""),
	}

	// Telemetry configuration
	config.Telemetry = TelemetryConfig{
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "hris-attendance"),
		Exporter:     getEnv("OTEL_TRACES_EXPORTER", "none"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if err := c.Attendance.DefaultTolerance.Validate(); err != nil {
		return fmt.Errorf("ATTENDANCE_* defaults: %w", err)
	}
	if c.Attendance.CronInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_CRON_INTERVAL must be positive")
	}
	switch c.Telemetry.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("OTEL_TRACES_EXPORTER must be one of: none, stdout, otlp")
	}
	return nil
}

// IsLocalDev reports whether AWS calls go to a local emulator.
func (c *Config) IsLocalDev() bool {
	return c.Events.AWSEndpoint != ""
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
