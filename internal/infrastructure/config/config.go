package config

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// NotificationWorkers sizes the broadcast dispatcher pool.
	NotificationWorkers int `env:"NOTIFICATION_WORKERS, default=8"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Calendar CalendarConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type PaymentConfig struct {
	URL    string `env:"PAYMENT_URL, default=https://processor.example.com"`
	APIKey string `env:"PAYMENT_API_KEY"`
}

// CalendarConfig lists external calendar bridges. An empty URL disables the
// provider; the builtin iCalendar export is always on.
type CalendarConfig struct {
	GoogleURL  string `env:"CALENDAR_GOOGLE_URL"`
	OutlookURL string `env:"CALENDAR_OUTLOOK_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
