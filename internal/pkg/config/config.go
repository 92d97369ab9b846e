package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, timeouts, policy constants)
// -----------------------------------------------------------------------------

var currencyCode = regexp.MustCompile(`^[a-z]{3}$`)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Booking BookingConfig
	Payment PaymentConfig
	Notify  NotifyConfig
	Redis   RedisConfig
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
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"12h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAMESITE" default:"Lax"`
}

type BookingConfig struct {
	NightlyRate         int64  `envconfig:"NIGHTLY_RATE" default:"100000"`
	Currency            string `envconfig:"CURRENCY" default:"jpy"`
	MaxGuests           int    `envconfig:"MAX_GUESTS" default:"12"`
	OccupancyWindowDays int    `envconfig:"OCCUPANCY_WINDOW_DAYS" default:"30"`
}

type PaymentConfig struct {
	APIBase          string        `envconfig:"PAYMENT_API_BASE" default:"https://api.stripe.com"`
	SecretKey        string        `envconfig:"PAYMENT_SECRET_KEY" required:"true"`
	WebhookSecret    string        `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
	WebhookTolerance time.Duration `envconfig:"PAYMENT_WEBHOOK_TOLERANCE" default:"5m"`
	Timeout          time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`
	BreakerThreshold int64         `envconfig:"PAYMENT_BREAKER_THRESHOLD" default:"5"`
	MaxAttempts      int           `envconfig:"PAYMENT_MAX_ATTEMPTS" default:"3"`
}

type NotifyConfig struct {
	AMQPURL      string        `envconfig:"AMQP_URL" default:""`
	Exchange     string        `envconfig:"AMQP_EXCHANGE" default:"villa.notifications"`
	PollInterval time.Duration `envconfig:"NOTIFY_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"NOTIFY_BATCH_SIZE" default:"20"`
	MaxAttempts  int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"8"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	LockTTL  time.Duration `envconfig:"BOOKING_LOCK_TTL" default:"10s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects policy values that would make pricing, refunds or retries meaningless.
func (c Config) Validate() error {
	var problems []string
	if c.Booking.NightlyRate <= 0 {
		problems = append(problems, "NIGHTLY_RATE must be positive")
	}
	if !currencyCode.MatchString(c.Booking.Currency) {
		problems = append(problems, "CURRENCY must be a lower-case ISO 4217 code")
	}
	if c.Booking.MaxGuests < 1 {
		problems = append(problems, "MAX_GUESTS must be at least 1")
	}
	if c.Booking.OccupancyWindowDays < 1 {
		problems = append(problems, "OCCUPANCY_WINDOW_DAYS must be at least 1")
	}
	if c.Payment.WebhookTolerance <= 0 {
		problems = append(problems, "PAYMENT_WEBHOOK_TOLERANCE must be positive")
	}
	if c.Payment.MaxAttempts < 1 {
		problems = append(problems, "PAYMENT_MAX_ATTEMPTS must be at least 1")
	}
	if c.Notify.MaxAttempts < 1 {
		problems = append(problems, "NOTIFY_MAX_ATTEMPTS must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-jwt-secret",
			Duration: time.Hour,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Booking: BookingConfig{
			NightlyRate:         100000,
			Currency:            "jpy",
			MaxGuests:           12,
			OccupancyWindowDays: 30,
		},
		Payment: PaymentConfig{
			APIBase:          "http://127.0.0.1:0",
			SecretKey:        "sk_test",
			WebhookSecret:    "whsec_test",
			WebhookTolerance: 5 * time.Minute,
			Timeout:          2 * time.Second,
			BreakerThreshold: 5,
			MaxAttempts:      3,
		},
		Notify: NotifyConfig{
			Exchange:     "villa.notifications",
			PollInterval: 100 * time.Millisecond,
			BatchSize:    20,
			MaxAttempts:  3,
		},
		Redis: RedisConfig{
			LockTTL: 5 * time.Second,
		},
	}
}
