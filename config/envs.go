package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP                  string // Host IP for the server
	RESTPort                int    // Port for the REST API
	DBHost                  string // Hostname or IP address for the database
	DBPort                  int    // Port number for the database
	DBUser                  string // Username for the database
	DBPassword              string // Password for the database
	DBName                  string // Name of the database
	RedisAddr               string // host:port of the leaderboard redis
	RedisPassword           string
	LeaderboardTTLSeconds   int    // Lifetime of a leaderboard after its last update
	GinMode                 string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret               string // Secret key for JWT signing
	JWTIssuer               string // Issuer claim for JWTs
	MaxTicks                int    // Tick budget of a race that does not name one
	MazeWidth               int    // Default maze width
	MazeHeight              int    // Default maze height
	OperatorTokenTTLMinutes int    // 0 disables the startup operator token
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		DBHost:                  mustGetEnv("DB_HOST"),
		DBPort:                  mustGetEnvAsInt("DB_PORT"),
		DBUser:                  mustGetEnv("DB_USER"),
		DBPassword:              mustGetEnv("DB_PASS"),
		DBName:                  mustGetEnv("DB_NAME"),
		RedisAddr:               mustGetEnv("REDIS_ADDR"),
		RedisPassword:           getEnvWithDefault("REDIS_PASS", ""),
		LeaderboardTTLSeconds:   getEnvAsIntWithDefault("LEADERBOARD_TTL_SECONDS", 7*24*60*60),
		GinMode:                 getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:               mustGetEnv("JWT_SECRET"),
		JWTIssuer:               mustGetEnv("JWT_ISSUER"),
		HostIP:                  mustGetEnv("HOST_IP"),
		RESTPort:                mustGetEnvAsInt("REST_PORT"),
		MaxTicks:                getEnvAsIntWithDefault("MAX_TICKS", 2000),
		MazeWidth:               getEnvAsIntWithDefault("MAZE_WIDTH", 16),
		MazeHeight:              getEnvAsIntWithDefault("MAZE_HEIGHT", 16),
		OperatorTokenTTLMinutes: getEnvAsIntWithDefault("OPERATOR_TOKEN_TTL_MINUTES", 0),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	return parseInt(key, mustGetEnv(key))
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return parseInt(key, value)
}

func parseInt(key, valueStr string) int {
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
