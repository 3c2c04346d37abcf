package config

import (
	"errors"
	"os"
)

// RelayConfig holds what the outbox relay process needs.
type RelayConfig struct {
	DBDriver    string
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
	HealthPort  string
	Log         LogConfig
}

func LoadRelayConfig() (*RelayConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	driver := getEnv("DB_DRIVER", DriverSQLite)
	dbURL, err := databaseURL(driver)
	if err != nil {
		return nil, err
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		return nil, errors.New("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DBDriver:    driver,
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   getEnv("ACTIVITY_QUEUE_NAME", "campus.activity"),
		HealthPort:  getEnv("RELAY_HEALTH_PORT", "8090"),
		Log:         loadLogConfig(),
	}, nil
}
