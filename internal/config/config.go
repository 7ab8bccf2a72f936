package config

import "os"

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	ServiceName     string
	Port            string
	MongoURI        string
	DBName          string
	RoomsCollection string
	UsersCollection string
	RedisAddr       string
}

// Load reads configuration from the environment. MongoURI and RedisAddr may
// be empty: the service then runs with in-memory storage and without the
// cross-instance presence relay.
func Load() *Config {
	return &Config{
		ServiceName:     getEnvOrDefault("SERVICE_NAME", "noteroom"),
		Port:            getEnvOrDefault("PORT", "7000"),
		MongoURI:        os.Getenv("MONGO_URI"),
		DBName:          getEnvOrDefault("NOTES_DB_NAME", "noterooms"),
		RoomsCollection: getEnvOrDefault("ROOMS_COLLECTION", "rooms"),
		UsersCollection: getEnvOrDefault("USERS_COLLECTION", "users"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
