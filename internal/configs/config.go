package configs

import (
	"fmt"
	"log"
	"os"
	"session-service/internal/constants"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTConfig struct {
	Port           string
	AllowedOrigins []string
}

type MarketplaceConfig struct {
	URL     string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// RedisConfig - кэш поиска. Пустой Addr отключает кэш.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// PostgresConfig - хранилище сохраненных поисков. Пустой URL - хранение в памяти процесса.
type PostgresConfig struct {
	DatabaseURL string
	MaxConns    int32
}

// RabbitMQConfig - публикация событий активности. Пустой URL отключает публикацию.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type SessionConfig struct {
	IdleTTL       time.Duration
	SweepSchedule string
}

// SliderConfig - границы слайдеров цены и площади.
type SliderConfig struct {
	PriceFloor   int64
	PriceCeiling int64
	AreaFloor    int64
	AreaCeiling  int64
	// OpenEnded - крайнее положение слайдера означает "без границы".
	OpenEnded bool
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Rest         RESTConfig
	Marketplace  MarketplaceConfig
	JWT          JWTConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	RabbitMQ     RabbitMQConfig
	Session      SessionConfig
	Sliders      SliderConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Файл .env необязателен: в контейнере переменные приходят из окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "session-service")

	cfg.Rest.Port = getEnvAsString("PORT", "8090")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	cfg.Marketplace.URL = getEnvAsString("MARKETPLACE_API_URL", "http://localhost:8000")
	cfg.Marketplace.Timeout = getEnvAsDuration("MARKETPLACE_API_TIMEOUT", 10*time.Second)
	cfg.Marketplace.RPS = getEnvAsFloat("MARKETPLACE_API_RPS", 20)
	cfg.Marketplace.Burst = getEnvAsInt("MARKETPLACE_API_BURST", 10)

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWT.Issuer = getEnvAsString("JWT_ISSUER", "auth-service")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
	cfg.Redis.TTL = getEnvAsDuration("SEARCH_CACHE_TTL", 2*time.Minute)

	cfg.Postgres.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Postgres.MaxConns = int32(getEnvAsInt("DATABASE_MAX_CONNS", 10))

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.Exchange = getEnvAsString("ACTIVITY_EXCHANGE", constants.ActivityExchange)

	cfg.Session.IdleTTL = getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute)
	cfg.Session.SweepSchedule = getEnvAsString("SESSION_SWEEP_SCHEDULE", "@every 1m")

	cfg.Sliders.PriceFloor = int64(getEnvAsInt("PRICE_SLIDER_MIN", 0))
	cfg.Sliders.PriceCeiling = int64(getEnvAsInt("PRICE_SLIDER_MAX", 100_000_000))
	cfg.Sliders.AreaFloor = int64(getEnvAsInt("AREA_SLIDER_MIN", 0))
	cfg.Sliders.AreaCeiling = int64(getEnvAsInt("AREA_SLIDER_MAX", 10_000))
	cfg.Sliders.OpenEnded = getEnvAsBool("SLIDER_OPEN_ENDED", false)
	if cfg.Sliders.PriceFloor > cfg.Sliders.PriceCeiling || cfg.Sliders.AreaFloor > cfg.Sliders.AreaCeiling {
		return nil, fmt.Errorf("slider floor must not exceed ceiling")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
