package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

type Config struct {
	Server    ServerConfig
	Dataset   DatasetConfig
	Logger    LoggerConfig
	Security  SecurityConfig
	Dashboard DashboardSettings
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatasetConfig struct {
	Seed  int64
	Start time.Time
	End   time.Time
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

// DashboardSettings holds the preferences shown on the Settings page. It is
// loaded once and never mutated; none of the values change how data is
// generated or aggregated.
type DashboardSettings struct {
	Theme                 string
	Layout                string
	SidebarState          string
	AutoUpdate            bool
	UpdateIntervalMinutes int
	Notifications         bool
	DataSource            string
	DataCache             bool
	CacheMinutes          int
	DateFormat            string
	Timezone              string
	Language              string
	UserName              string
	Email                 string
	Company               string
	Role                  string
	Department            string
	AccessLevel           string
}

var (
	Themes        = []string{"Light", "Dark", "Auto"}
	Layouts       = []string{"Wide", "Centered"}
	SidebarStates = []string{"Expanded", "Collapsed"}
	DataSources   = []string{"CSV", "Database", "API", "Excel"}
	DateFormats   = []string{"DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD"}
	Timezones     = []string{"UTC", "America/Sao_Paulo", "Europe/London"}
	Languages     = []string{"Portuguese", "English", "Spanish"}
	Departments   = []string{"IT", "Marketing", "Sales", "Finance", "HR"}
	AccessLevels  = []string{"Admin", "Manager", "Analyst", "Viewer"}
)

// Load reads configuration from the environment. Variables from a .env file
// in the working directory are applied first without overriding the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	defaults := Defaults()
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Dataset: DatasetConfig{
			Seed:  getEnvInt64("DATASET_SEED", 42),
			Start: getEnvDate("DATASET_START", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			End:   getEnvDate("DATASET_END", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 10),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Dashboard: DashboardSettings{
			Theme:                 getEnvString("DASHBOARD_THEME", defaults.Theme),
			Layout:                getEnvString("DASHBOARD_LAYOUT", defaults.Layout),
			SidebarState:          getEnvString("DASHBOARD_SIDEBAR", defaults.SidebarState),
			AutoUpdate:            getEnvBool("DASHBOARD_AUTO_UPDATE", defaults.AutoUpdate),
			UpdateIntervalMinutes: getEnvInt("DASHBOARD_UPDATE_INTERVAL", defaults.UpdateIntervalMinutes),
			Notifications:         getEnvBool("DASHBOARD_NOTIFICATIONS", defaults.Notifications),
			DataSource:            getEnvString("DASHBOARD_DATA_SOURCE", defaults.DataSource),
			DataCache:             getEnvBool("DASHBOARD_DATA_CACHE", defaults.DataCache),
			CacheMinutes:          getEnvInt("DASHBOARD_CACHE_MINUTES", defaults.CacheMinutes),
			DateFormat:            getEnvString("DASHBOARD_DATE_FORMAT", defaults.DateFormat),
			Timezone:              getEnvString("DASHBOARD_TIMEZONE", defaults.Timezone),
			Language:              getEnvString("DASHBOARD_LANGUAGE", defaults.Language),
			UserName:              getEnvString("DASHBOARD_USER_NAME", defaults.UserName),
			Email:                 getEnvString("DASHBOARD_USER_EMAIL", defaults.Email),
			Company:               getEnvString("DASHBOARD_COMPANY", defaults.Company),
			Role:                  getEnvString("DASHBOARD_ROLE", defaults.Role),
			Department:            getEnvString("DASHBOARD_DEPARTMENT", defaults.Department),
			AccessLevel:           getEnvString("DASHBOARD_ACCESS_LEVEL", defaults.AccessLevel),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.Start.After(c.Dataset.End) {
		return fmt.Errorf("dataset start %s is after end %s", c.Dataset.Start.Format(dateLayout), c.Dataset.End.Format(dateLayout))
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return c.Dashboard.validate()
}

func (s DashboardSettings) validate() error {
	choices := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"theme", s.Theme, Themes},
		{"layout", s.Layout, Layouts},
		{"sidebar state", s.SidebarState, SidebarStates},
		{"data source", s.DataSource, DataSources},
		{"date format", s.DateFormat, DateFormats},
		{"timezone", s.Timezone, Timezones},
		{"language", s.Language, Languages},
		{"department", s.Department, Departments},
		{"access level", s.AccessLevel, AccessLevels},
	}
	for _, c := range choices {
		if !slices.Contains(c.allowed, c.value) {
			return fmt.Errorf("invalid %s %q, must be one of: %s", c.name, c.value, strings.Join(c.allowed, ", "))
		}
	}

	if s.UpdateIntervalMinutes < 1 || s.UpdateIntervalMinutes > 60 {
		return fmt.Errorf("update interval must be between 1 and 60 minutes, got %d", s.UpdateIntervalMinutes)
	}

	if s.CacheMinutes < 1 || s.CacheMinutes > 1440 {
		return fmt.Errorf("cache time must be between 1 and 1440 minutes, got %d", s.CacheMinutes)
	}

	return nil
}

// Defaults returns the settings as they are when no DASHBOARD_* variable is
// set, used by the Settings page "reset" action.
func Defaults() DashboardSettings {
	return DashboardSettings{
		Theme:                 "Light",
		Layout:                "Wide",
		SidebarState:          "Expanded",
		AutoUpdate:            true,
		UpdateIntervalMinutes: 5,
		Notifications:         true,
		DataSource:            "CSV",
		DataCache:             true,
		CacheMinutes:          60,
		DateFormat:            "YYYY-MM-DD",
		Timezone:              "UTC",
		Language:              "English",
		UserName:              "Data Analyst",
		Email:                 "analyst@example.com",
		Company:               "Data Science Corp",
		Role:                  "Data Scientist",
		Department:            "IT",
		AccessLevel:           "Analyst",
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if date, err := time.Parse(dateLayout, value); err == nil {
			return date
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
