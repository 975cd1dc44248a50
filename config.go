package main

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port                string
	WhatsAppAPIURL      string
	WhatsAppAPIToken    string
	WhatsAppPhoneNumber string
	JWTSecret           string
	AllowedOrigins      string
	RedisURL            string
	SchedulerEnabled    bool
	ReminderCheckHour   int
	ReminderCheckMinute int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8000"),
		WhatsAppAPIURL:      os.Getenv("WHATSAPP_API_URL"),
		WhatsAppAPIToken:    os.Getenv("WHATSAPP_API_TOKEN"),
		WhatsAppPhoneNumber: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		SchedulerEnabled:    getEnvBool("SCHEDULER_ENABLED", true),
		ReminderCheckHour:   getEnvInt("REMINDER_CHECK_HOUR", 9),
		ReminderCheckMinute: getEnvInt("REMINDER_CHECK_MINUTE", 0),
	}

	if cfg.WhatsAppAPIURL == "" {
		return nil, fmt.Errorf("WHATSAPP_API_URL is required")
	}
	if cfg.WhatsAppAPIToken == "" {
		return nil, fmt.Errorf("WHATSAPP_API_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ReminderCheckHour < 0 || cfg.ReminderCheckHour > 23 {
		return nil, fmt.Errorf("REMINDER_CHECK_HOUR must be between 0 and 23")
	}
	if cfg.ReminderCheckMinute < 0 || cfg.ReminderCheckMinute > 59 {
		return nil, fmt.Errorf("REMINDER_CHECK_MINUTE must be between 0 and 59")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
