package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Env              string
	DBPath           string
	QRImageBaseURL   string
	BankDirectoryURL string
	CORSOrigins      string
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:             GetEnv("PORT", "3000"),
		Env:              GetEnv("ENV", "development"),
		DBPath:           GetEnv("DB_PATH", "./data/qr-cache.db"),
		QRImageBaseURL:   GetEnv("QR_IMAGE_BASE_URL", "https://img.vietqr.io/image"),
		BankDirectoryURL: GetEnv("BANK_DIRECTORY_URL", "https://api.vietqr.io/v2/banks"),
		CORSOrigins:      GetEnv("CORS_ORIGINS", "*"),
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
