package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type OracleConfig struct {
	APIURL      string        `env:"ORACLE_API_URL" envDefault:"https://api.openai.com/v1/chat/completions"`
	APIKey      string        `env:"ORACLE_API_KEY"`
	Model       string        `env:"ORACLE_MODEL" envDefault:"gpt-4o-mini"`
	Temperature float64       `env:"ORACLE_TEMPERATURE" envDefault:"0.2"`
	Timeout     time.Duration `env:"ORACLE_TIMEOUT" envDefault:"20s"`
}

type RateLimitConfig struct {
	Capacity int           `env:"RATE_LIMIT_CAPACITY" envDefault:"5"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"loan-events"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"45s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	RunMigrations    bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	JWTSecret   string        `env:"JWT_SECRET"`
	DecisionTTL time.Duration `env:"DECISION_TTL" envDefault:"30m"`

	Oracle    OracleConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.Oracle.Timeout <= 0 {
		return errors.New("ORACLE_TIMEOUT must be positive")
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit capacity and window must be positive")
	}
	return nil
}
