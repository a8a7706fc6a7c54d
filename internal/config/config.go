package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	DBHost       string
	DBPort       string
	DBUser       string
	DBPass       string
	DBName       string
	DBSSLMode    string
	JWTSecret    string
	Port         string
	Env          string
	QRDir        string
	LogLevel     string
	SMSAPIKey    string
	SMSSenderID  string
	SMSBaseURL   string
	CodeAttempts int
}

func NewConfigFromEnv() (*Config, error) {
	codeAttempts, _ := strconv.Atoi(getenv("CODE_MAX_ATTEMPTS", "50"))

	cfg := &Config{
		DBHost:       getenv("DB_HOST", "localhost"),
		DBPort:       getenv("DB_PORT", "5432"),
		DBUser:       getenv("DB_USER", "postgres"),
		DBPass:       getenv("DB_PASSWORD", "postgres"),
		DBName:       getenv("DB_NAME", "campdb"),
		DBSSLMode:    getenv("DB_SSLMODE", "disable"),
		JWTSecret:    getenv("JWT_SECRET", ""),
		Port:         getenv("PORT", "3000"),
		Env:          getenv("ENV", "development"),
		QRDir:        getenv("QR_DIR", "./uploads/qrcodes"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		SMSAPIKey:    getenv("SMS_API_KEY", ""),
		SMSSenderID:  getenv("SMS_SENDER_ID", "CAMPMGR"),
		SMSBaseURL:   getenv("SMS_BASE_URL", "https://sms.arkesel.com/api/v2/sms/send"),
		CodeAttempts: codeAttempts,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
