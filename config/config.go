package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"salonsmart-backend/utils"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Auth      AuthConfig      `toml:"auth"`
	Booking   BookingConfig   `toml:"booking"`
	Reminders RemindersConfig `toml:"reminders"`
	Billing   BillingConfig   `toml:"billing"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	CORS      CORSConfig      `toml:"cors"`
}

type ServerConfig struct {
	Port            int    `toml:"port"`
	Mode            string `toml:"mode"` // gin mode: debug, release, test
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	// SlowRequestMs flags requests slower than this in the request log.
	SlowRequestMs int    `toml:"slow_request_ms"`
	Timezone      string `toml:"timezone"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres, sqlite, memory
	URL             string `toml:"url"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	Seed            bool   `toml:"seed"`
}

type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	ExpiryHours int    `toml:"expiry_hours"`
	BcryptCost  int    `toml:"bcrypt_cost"`
	DemoMode    bool   `toml:"demo_mode"`
	DemoRole    string `toml:"demo_role"`
}

type BookingConfig struct {
	PreventDoubleBooking bool   `toml:"prevent_double_booking"`
	SessionIdleMinutes   int    `toml:"session_idle_minutes"`
	SweepSpec            string `toml:"sweep_spec"`
}

type RemindersConfig struct {
	Spec                 string `toml:"spec"`
	TwilioAccountSID     string `toml:"twilio_account_sid"`
	TwilioAuthToken      string `toml:"twilio_auth_token"`
	TwilioPhoneNumber    string `toml:"twilio_phone_number"`
	TwilioWhatsAppNumber string `toml:"twilio_whatsapp_number"`
}

type BillingConfig struct {
	DefaultTax       float64 `toml:"default_tax"`
	OverdueAfterDays int     `toml:"overdue_after_days"`
	OverdueSpec      string  `toml:"overdue_spec"`
}

type LogsConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
	File        string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type CORSConfig struct {
	AllowOrigins []string `toml:"allow_origins"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			SlowRequestMs:   200,
			Timezone:        "Local",
		},
		Database: DatabaseConfig{
			Driver:          "memory",
			MaxOpenConns:    100,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
			Seed:            true,
		},
		Auth: AuthConfig{
			ExpiryHours: 24,
			DemoRole:    "admin",
		},
		Booking: BookingConfig{
			SessionIdleMinutes: 30,
			SweepSpec:          "@every 5m",
		},
		Reminders: RemindersConfig{
			Spec: "0 9 * * *",
		},
		Billing: BillingConfig{
			DefaultTax:       8,
			OverdueAfterDays: 30,
			OverdueSpec:      "0 1 * * *",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "salonsmart",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:5173"},
		},
	}
}

// Load reads the optional TOML file at path, then .env, then environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	// Load .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	// Demo deployments may run without a configured secret; tokens then
	// only survive until restart.
	if cfg.Auth.JWTSecret == "" && cfg.Auth.DemoMode {
		cfg.Auth.JWTSecret = utils.GenerateJWTSecret()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Mode, "GIN_MODE")
	setString(&c.Server.Timezone, "TZ_NAME")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.URL, "DB_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.DemoRole, "DEMO_ROLE")
	setString(&c.Reminders.TwilioAccountSID, "TWILIO_ACCOUNT_SID")
	setString(&c.Reminders.TwilioAuthToken, "TWILIO_AUTH_TOKEN")
	setString(&c.Reminders.TwilioPhoneNumber, "TWILIO_PHONE_NUMBER")
	setString(&c.Reminders.TwilioWhatsAppNumber, "TWILIO_WHATSAPP_NUMBER")
	setString(&c.Logs.Level, "LOG_LEVEL")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORS.AllowOrigins = strings.Split(v, ",")
	}

	for key, dst := range map[string]*int{
		"PORT":             &c.Server.Port,
		"JWT_EXPIRY_HOURS": &c.Auth.ExpiryHours,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"DEMO_MODE":              &c.Auth.DemoMode,
		"DB_SEED":                &c.Database.Seed,
		"PREVENT_DOUBLE_BOOKING": &c.Booking.PreventDoubleBooking,
		"METRICS_ENABLED":        &c.Metrics.Enabled,
	} {
		if err := setBool(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for postgres")
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("database.driver %q: want postgres, sqlite or memory", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Billing.DefaultTax < 0 || c.Billing.DefaultTax > 100 {
		return fmt.Errorf("billing.default_tax %v: want 0-100", c.Billing.DefaultTax)
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" || c.Server.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Server.Timezone)
}

func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.Booking.SessionIdleMinutes) * time.Minute
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.Auth.ExpiryHours) * time.Hour
}
