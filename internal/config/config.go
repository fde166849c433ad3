package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportToncenter	= "toncenter"
	TransportLiteserver	= "liteserver"
)

type Config struct {
	// HTTP API
	ServerPort	string

	// Доступ к сети TON
	Transport	string	// toncenter | liteserver
	ToncenterURL	string
	ToncenterAPIKey	string
	TonConfigURL	string	// global.config.json для liteserver
	RPCTimeout	time.Duration
	RPCMinInterval	time.Duration	// пауза между вызовами toncenter

	// Объединение запросов
	CoalesceTTL	time.Duration
	FetchParallel	bool

	// Журнал запросов (опционально)
	DatabaseURL	string
	LookupRetention	time.Duration
	CleanerInterval	time.Duration
	LookupsLimit	int	// размер страницы /lookups по умолчанию

	LogLevel	string
	LogJSON		bool
}

func LoadConfig() (*Config, error) {

	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:	getEnv("SERVER_PORT", ":8080"),

		Transport:		getEnv("TON_TRANSPORT", TransportToncenter),
		ToncenterURL:		getEnv("TONCENTER_URL", "https://toncenter.com/api/v2/jsonRPC"),
		ToncenterAPIKey:	getEnv("TONCENTER_API_KEY", ""),
		TonConfigURL:		getEnv("TON_CONFIG_URL", "https://ton.org/global.config.json"),
		RPCTimeout:		getEnvAsDuration("RPC_TIMEOUT", 15*time.Second),
		RPCMinInterval:		getEnvAsDuration("RPC_MIN_INTERVAL", 1300*time.Millisecond),

		CoalesceTTL:	getEnvAsDuration("COALESCE_TTL", 30*time.Second),
		FetchParallel:	getEnvAsBool("FETCH_PARALLEL", false),

		DatabaseURL:		getEnv("DB_URL", ""),
		LookupRetention:	getEnvAsDuration("LOOKUP_RETENTION", 7*24*time.Hour),
		CleanerInterval:	getEnvAsDuration("CLEANER_INTERVAL", 10*time.Minute),
		LookupsLimit:		getEnvAsInt("LOOKUPS_LIMIT", 50),

		LogLevel:	getEnv("LOG_LEVEL", "info"),
		LogJSON:	getEnvAsBool("LOG_JSON", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportToncenter, TransportLiteserver:
	default:
		return fmt.Errorf("TON_TRANSPORT must be %q or %q, got %q", TransportToncenter, TransportLiteserver, c.Transport)
	}
	if c.RPCTimeout <= 0 {
		return fmt.Errorf("RPC_TIMEOUT must be positive")
	}
	if c.CoalesceTTL < 0 {
		return fmt.Errorf("COALESCE_TTL must not be negative")
	}
	if c.LookupRetention <= 0 || c.CleanerInterval <= 0 {
		return fmt.Errorf("LOOKUP_RETENTION and CLEANER_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultVal
}
