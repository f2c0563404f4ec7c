package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName       string
	Port              string
	MongoURI          string
	RedisHost         string
	RedisPort         string
	CassDB            string
	JaegerAddress     string
	AuthServiceURL    string
	PaymentServiceURL string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Admission pricing rates. Fixed platform-wide for now, overridable by
	// environment as the per-property extension point.
	TaxRate        float64
	ServiceFeeRate float64
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("No .env file found, reading configuration from environment")
	}

	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8082"
	}

	authURL := os.Getenv("AUTH_SERVICE_URL")
	if len(authURL) == 0 {
		authURL = "https://auth-server:8080"
	}

	paymentURL := os.Getenv("PAYMENT_SERVICE_URL")
	if len(paymentURL) == 0 {
		paymentURL = "https://payment-server:8090"
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		ServiceName:       "booking-service",
		Port:              port,
		MongoURI:          os.Getenv("MONGO_DB_URI"),
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisPort:         os.Getenv("REDIS_PORT"),
		CassDB:            os.Getenv("CASS_DB"),
		JaegerAddress:     os.Getenv("JAEGER_ADDRESS"),
		AuthServiceURL:    authURL,
		PaymentServiceURL: paymentURL,
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          smtpPort,
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		EmailFrom:         os.Getenv("EMAIL_FROM"),
		TaxRate:           rateFromEnv("TAX_RATE", 0.10),
		ServiceFeeRate:    rateFromEnv("SERVICE_FEE_RATE", 0.05),
	}
}

func rateFromEnv(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if len(raw) == 0 {
		return fallback
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 {
		return fallback
	}
	return rate
}
