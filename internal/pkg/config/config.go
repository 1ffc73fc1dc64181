package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   processor credentials)
// - default: Values common across all environments (TTLs, horizon, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Payments PaymentsConfig
	Booking  BookingConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"30s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type PaymentsConfig struct {
	StripeSecretKey string        `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	Currency        string        `envconfig:"PAYMENT_CURRENCY" default:"usd"`
	RefreshTimeout  time.Duration `envconfig:"PAYMENT_REFRESH_TIMEOUT" default:"15s"`
	MaxRetries      uint64        `envconfig:"PAYMENT_REFRESH_MAX_RETRIES" default:"4"`
}

type BookingConfig struct {
	HoldTTL           time.Duration `envconfig:"HOLD_TTL" default:"15m"`
	PricePerSlotCents int64         `envconfig:"PRICE_PER_SLOT_CENTS" default:"1000"`
	HorizonDays       int           `envconfig:"BOOKING_HORIZON_DAYS" default:"90"`
	SweepInterval     time.Duration `envconfig:"HOLD_SWEEP_INTERVAL" default:"1m"`
	NotifyInterval    time.Duration `envconfig:"NOTIFY_POLL_INTERVAL" default:"10s"`
	NotifyMaxAttempts int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"5"`
}

type EmailConfig struct {
	SMTPHost string `envconfig:"SMTP_HOST" default:""`
	SMTPPort string `envconfig:"SMTP_PORT" default:"587"`
	From     string `envconfig:"EMAIL_FROM" default:"bookings@example.com"`
	Username string `envconfig:"SMTP_USERNAME" default:""`
	Password string `envconfig:"SMTP_PASSWORD" default:""`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level: "error",
		},
		Payments: PaymentsConfig{
			StripeSecretKey: "sk_test_dummy",
			Currency:        "usd",
			RefreshTimeout:  time.Second,
			MaxRetries:      1,
		},
		Booking: BookingConfig{
			HoldTTL:           15 * time.Minute,
			PricePerSlotCents: 1000,
			HorizonDays:       90,
			SweepInterval:     time.Minute,
			NotifyInterval:    10 * time.Second,
			NotifyMaxAttempts: 5,
		},
	}
}
