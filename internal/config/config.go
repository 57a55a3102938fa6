package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; DATABASE_URL and MAIL_API_TOKEN are
// required because the service cannot query or deliver without them.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Mail provider
	MailAPIURL   string
	MailAPIToken string
	MailTimeout  time.Duration
	MailFrom     string
	MailSubject  string

	// Newsletter schedule: standard 5-field cron expression evaluated in
	// Timezone. Default is 08:30 every Monday.
	NewsletterCron string
	Timezone       string

	// Lookahead window for upcoming releases, measured from run start.
	ReleaseLookahead time.Duration

	// Minimum spacing between consecutive delivery attempts. The mail
	// provider enforces roughly one send per five seconds.
	SendMinInterval time.Duration

	// Dispatch bus buffer size and in-memory run history capacity.
	DispatchBuffer int
	HistorySize    int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	mailToken := os.Getenv("MAIL_API_TOKEN")
	if mailToken == "" {
		return nil, fmt.Errorf("MAIL_API_TOKEN is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		MailAPIURL:   getEnv("MAIL_API_URL", "https://send.api.mailtrap.io/api/send"),
		MailAPIToken: mailToken,
		MailTimeout:  getDuration("MAIL_TIMEOUT", 10*time.Second),
		MailFrom:     getEnv("MAIL_FROM", "newsletter@gameshelf.app"),
		MailSubject:  getEnv("MAIL_SUBJECT", "Upcoming game releases this week"),

		NewsletterCron: getEnv("NEWSLETTER_CRON", "30 8 * * 1"),
		Timezone:       getEnv("TIMEZONE", "UTC"),

		ReleaseLookahead: getDuration("RELEASE_LOOKAHEAD", 7*24*time.Hour),
		SendMinInterval:  getDuration("SEND_MIN_INTERVAL", 5*time.Second),

		DispatchBuffer: getInt("DISPATCH_BUFFER", 16),
		HistorySize:    getInt("HISTORY_SIZE", 50),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
