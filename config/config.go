package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env       string
	Port      string
	JWTKey    string
	JWTTTL    int // hours
	SaltRound int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string

	RedisURL string

	SendgridKey     string
	EmailSender     string
	EmailSenderName string

	CertificateImageBaseURL string
	CertificateTemplateID   string

	PaymentApiURL string
	PaymentApiKey string

	RollbarToken string

	GlobalQuizPassMark int // percentage applied to quizzes authored without a pass mark
	MaxQuizAttempts    int // 0 means unlimited

	CorsAllowOrigins string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTL:    getEnvInt("JWT_TTL_HOURS", 24),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnit"),
		DBDSN:      getEnv("DB_DSN", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		SendgridKey:     getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "noreply@learnit.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "LearnIt"),

		CertificateImageBaseURL: getEnv("CERTIFICATE_IMAGE_BASE_URL", "https://res.cloudinary.com/learnit/image/upload"),
		CertificateTemplateID:   getEnv("CERTIFICATE_TEMPLATE_ID", "certificate_template.png"),

		PaymentApiURL: getEnv("PAYMENT_API_URL", ""),
		PaymentApiKey: getEnv("PAYMENT_API_KEY", ""),

		RollbarToken: getEnv("ROLLBAR_TOKEN", ""),

		GlobalQuizPassMark: getEnvInt("GLOBAL_QUIZ_PASS_MARK", 70),
		MaxQuizAttempts:    getEnvInt("MAX_QUIZ_ATTEMPTS", 0),

		CorsAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.GlobalQuizPassMark < 0 || AppConfig.GlobalQuizPassMark > 100 {
		log.Printf("Warning: GLOBAL_QUIZ_PASS_MARK=%d is not a percentage, using 70", AppConfig.GlobalQuizPassMark)
		AppConfig.GlobalQuizPassMark = 70
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
