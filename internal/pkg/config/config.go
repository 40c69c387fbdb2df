package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Storage   StorageConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Sweeper   SweeperConfig
	Outbox    OutboxConfig
	Redis     RedisConfig
	Rabbit    RabbitConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Jakarta"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Content-Disposition"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Jakarta"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"25200"` // 7*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type BookingConfig struct {
	HoldDuration      time.Duration `envconfig:"BOOKING_HOLD_DURATION" default:"15m"`
	PaymentReviewHold time.Duration `envconfig:"BOOKING_PAYMENT_REVIEW_HOLD" default:"24h"`
	DefaultMaxSeats   int           `envconfig:"BOOKING_DEFAULT_MAX_SEATS" default:"6"`
}

type SweeperConfig struct {
	Enabled     bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"SWEEPER_INTERVAL" default:"60s"`
	BatchSize   int           `envconfig:"SWEEPER_BATCH_SIZE" default:"200"`
	Concurrency int           `envconfig:"SWEEPER_CONCURRENCY" default:"4"`
	MaxRetries  int           `envconfig:"SWEEPER_MAX_RETRIES" default:"3"`
	LeaseTTL    time.Duration `envconfig:"SWEEPER_LEASE_TTL" default:"50s"`
}

type OutboxConfig struct {
	Enabled     bool          `envconfig:"OUTBOX_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"OUTBOX_INTERVAL" default:"5s"`
	BatchSize   int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// Empty Addr disables the distributed sweeper lease.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Empty URL publishes outbox events to the log instead of a broker.
type RabbitConfig struct {
	URL      string `envconfig:"RABBIT_URL"`
	Exchange string `envconfig:"RABBIT_EXCHANGE" default:"booking.events"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"travel-booking"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *StorageConfig) Validate(db DBConfig) error {
	switch c.Driver {
	case StorageDriverMemory:
		return nil
	case StorageDriverPostgres:
		if db.User == "" || db.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for storage driver %q", c.Driver)
		}
		return nil
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Driver)
	}
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Storage.Validate(cfg.DB); err != nil {
		return Config{}, err
	}
	return cfg, nil
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
			TimeZone: "Asia/Jakarta",
			MaxConns: 10,
		},
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Jakarta",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 25200,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Booking: BookingConfig{
			HoldDuration:      15 * time.Minute,
			PaymentReviewHold: 24 * time.Hour,
			DefaultMaxSeats:   6,
		},
		Sweeper: SweeperConfig{
			Enabled:     false, // driven manually via SweepOnce
			Interval:    time.Minute,
			BatchSize:   200,
			Concurrency: 4,
			MaxRetries:  3,
			LeaseTTL:    50 * time.Second,
		},
		Outbox: OutboxConfig{
			Enabled:     false,
			Interval:    5 * time.Second,
			BatchSize:   100,
			MaxAttempts: 10,
		},
		Rabbit: RabbitConfig{
			Exchange: "booking.events",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "travel-booking-test",
		},
	}
}
