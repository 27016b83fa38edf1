package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDB           string
	CloudinaryURL     string
	PaginationPosts   string
	PostsDefaultLimit int64
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:           getEnv("MONGODB_DB", "linkedin"),
		CloudinaryURL:     getEnv("CLOUDINARY_URL", ""),
		PaginationPosts:   getEnv("PAGINATION_POSTS", "/posts"),
		PostsDefaultLimit: getEnvAsInt64("POSTS_DEFAULT_LIMIT", 10),
	}
}
