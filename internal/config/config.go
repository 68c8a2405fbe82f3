package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	WS      WSConfig
	Logging LoggingConfig
	Words   WordsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port          string
	Host          string
	Env           string // "development" or "production"
	ClientOrigin  string
	ShutdownGrace time.Duration
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers      int
	MaxPlayers      int
	RoomGracePeriod time.Duration
	RoomCodeLength  int
}

// WSConfig holds per-connection websocket limits
type WSConfig struct {
	RateLimit float64 // inbound messages per second
	RateBurst int
	ReadLimit int64
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// WordsConfig points at an optional dictionary file
type WordsConfig struct {
	File string // one word per line; empty means the built-in list
}

// Load reads a .env file when present, then builds the configuration from
// environment variables with defaults
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			Host:          getEnv("HOST", "0.0.0.0"),
			Env:           getEnv("ENV", "development"),
			ClientOrigin:  getEnv("CLIENT_ORIGIN", "*"),
			ShutdownGrace: getEnvDuration("SHUTDOWN_GRACE", 30*time.Second),
		},
		Game: GameConfig{
			MinPlayers:      getEnvInt("MIN_PLAYERS", 2),
			MaxPlayers:      getEnvInt("MAX_PLAYERS", 8),
			RoomGracePeriod: getEnvDuration("ROOM_GRACE_PERIOD", 5*time.Minute),
			RoomCodeLength:  getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		WS: WSConfig{
			RateLimit: getEnvFloat("WS_RATE_LIMIT", 10),
			RateBurst: getEnvInt("WS_RATE_BURST", 20),
			ReadLimit: int64(getEnvInt("WS_READ_LIMIT", 8192)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Words: WordsConfig{
			File: getEnv("WORDS_FILE", ""),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s", "5m") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
