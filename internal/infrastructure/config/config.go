package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers           []string
	EventTopic        string
	AuditTopic        string
	NotificationTopic string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type LendingConfig struct {
	MinCreditScore int
	MaxDTIPercent  int
	Currency       string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type Config struct {
	GRPCPort    int
	HTTPPort    int
	DB          DatabaseConfig
	Kafka       KafkaConfig
	SMTP        SMTPConfig
	Lending     LendingConfig
	Auth        AuthConfig
	// NotifierDriver selects the outbound channel: "smtp", "kafka" or "log".
	NotifierDriver string
	ServiceName    string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9094),
		HTTPPort: getEnvInt("HTTP_PORT", 8094),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "iprofit"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "iprofit_lending"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:           strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			EventTopic:        getEnv("KAFKA_EVENT_TOPIC", "lending.events"),
			AuditTopic:        getEnv("KAFKA_AUDIT_TOPIC", "lending.audit"),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "lending.notifications"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@iprofit.example"),
		},
		Lending: LendingConfig{
			MinCreditScore: getEnvInt("LENDING_MIN_CREDIT_SCORE", 600),
			MaxDTIPercent:  getEnvInt("LENDING_MAX_DTI_PERCENT", 40),
			Currency:       getEnv("LENDING_CURRENCY", "USD"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "iprofit"),
		},
		NotifierDriver: getEnv("NOTIFIER_DRIVER", "log"),
		ServiceName:    "lending-service",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
