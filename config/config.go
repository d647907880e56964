package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	Env       string
	MongoURI  string
	MongoDB   string
	RedisURL  string
	CacheTTL  time.Duration
	CartTTL   time.Duration
	PageSize  int
	JWTSecret string
	StripeKey string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
}

func Load() Config {
	return Config{
		Port:      getEnv("PORT", "3000"),
		Env:       getEnv("APP_ENV", "development"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "ecommerce"),
		RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:  time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		CartTTL:   time.Duration(getEnvInt("CART_TTL_HOURS", 24*7)) * time.Hour,
		PageSize:  getEnvInt("PAGE_SIZE", 10),
		JWTSecret: getEnv("JWT_TOKEN_SECRET", ""),
		StripeKey: getEnv("STRIPE_SECRET_KEY", ""),
		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnv("SMTP_PORT", "587"),
		SMTPUser:  getEnv("SMTP_EMAIL", ""),
		SMTPPass:  getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
