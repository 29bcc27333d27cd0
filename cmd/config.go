package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisURL is a redis:// URL or host:port. Empty disables the live feed.
	RedisURL string
	// KafkaBrokers is a comma separated list. Empty disables integration events.
	KafkaBrokers           string
	KafkaOrderChangedTopic string

	JWTSecret  string
	SessionTTL time.Duration

	// GraphHopperAPIKey empty disables geocoding and routing.
	GraphHopperAPIKey  string
	GraphHopperBaseURL string

	// RequireVerification starts new partners in pending_verification instead of active.
	RequireVerification bool
	LogLevel            slog.Level

	StatusNormalizationSchedule string
	CapAuditSchedule            string
}

// Validate reports every missing required value at once.
func (c Config) Validate() error {
	var problems []error
	required := []struct{ key, value string }{
		{"HTTP_PORT", c.HTTPPort},
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"DB_SSLMODE", c.DBSslMode},
		{"JWT_SECRET", c.JWTSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, fmt.Errorf("%s is required", r.key))
		}
	}
	if c.SessionTTL < 0 {
		problems = append(problems, errors.New("SESSION_TTL must not be negative"))
	}
	return errors.Join(problems...)
}

// DSN is the PostgreSQL connection string for gorm's postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
