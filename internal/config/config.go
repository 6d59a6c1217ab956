package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	FeePolicy    string // "threshold" | "flat-free"
	BotToken     string
	StaffChatID  string
	TelegramAPI  string
	RedisAddr    string // empty disables the change feed
	RedisChannel string
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not load .env: %v", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBDSN:        getEnv("DB_DSN", "okeanmarket.db"),
		LogFile:      getEnv("LOG_FILE", "./okeanmarket.log"),
		FeePolicy:    getEnv("DELIVERY_FEE_POLICY", "threshold"),
		BotToken:     getEnv("BOT_TOKEN", ""),
		StaffChatID:  getEnv("STAFF_CHAT_ID", ""),
		TelegramAPI:  getEnv("TELEGRAM_API", "https://api.telegram.org"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "okean:orders"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s FEE_POLICY=%s REDIS=%q notifier=%v",
		cfg.Port, cfg.DBDSN, cfg.FeePolicy, cfg.RedisAddr, cfg.BotToken != "")
	return cfg
}
