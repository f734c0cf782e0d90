package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Optional values fall back to the defaults
// documented next to them.
type Config struct {
	Env            string // APP_ENV (dev, test, prod)
	Port           string // APP_PORT
	BaseURL        string // BASE_URL, public URL of this API, used in invoice links
	FrontendURL    string // FRONTEND_URL, used in password reset links
	DBUser         string // DB_USER
	DBPass         string // DB_PASS (may be empty)
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	AutoMigrate    bool   // DB_AUTO_MIGRATE, apply the embedded schema at startup
	JWTSecret      string // JWT_SECRET
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int    // BCRYPT_COST
	ResetTTLHours  int    // RESET_TOKEN_TTL_HOURS
	UploadDir      string // UPLOAD_DIR, served under /uploads
	AMQPURL        string // RABBITMQ_URL or AMQP_URL; empty disables the broker
	ContactEmail   string // CONTACT_EMAIL, default recipient of contact messages
	Mail           MailConfig
	Seed           SeedConfig
}

// SeedConfig describes the staff accounts created at startup when absent.
type SeedConfig struct {
	AdminEmail        string
	AdminPassword     string
	ReceptionistEmail string
	ReceptionistPass  string
}

// Load reads .env (when present) and the process environment. Every
// missing or malformed required variable is reported in the returned
// error so that a misconfigured deployment fails once with the full list.
func Load() (Config, error) {
	_ = godotenv.Load()

	l := &loader{}
	cfg := Config{
		Env:            l.must("APP_ENV"),
		Port:           l.must("APP_PORT"),
		BaseURL:        strings.TrimRight(envStr("BASE_URL", "http://localhost:8080"), "/"),
		FrontendURL:    strings.TrimRight(envStr("FRONTEND_URL", "http://localhost:4200"), "/"),
		DBUser:         l.must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         l.must("DB_HOST"),
		DBPort:         l.must("DB_PORT"),
		DBName:         l.must("DB_NAME"),
		AutoMigrate:    envBool("DB_AUTO_MIGRATE", true),
		JWTSecret:      l.must("JWT_SECRET"),
		AccessTTLMin:   l.mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: l.mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     l.mustInt("BCRYPT_COST"),
		ResetTTLHours:  envInt("RESET_TOKEN_TTL_HOURS", 24),
		UploadDir:      envStr("UPLOAD_DIR", "uploads"),
		AMQPURL:        amqpURL(),
		ContactEmail:   os.Getenv("CONTACT_EMAIL"),
		Mail:           LoadMailConfig(),
		Seed: SeedConfig{
			AdminEmail:        os.Getenv("SEED_ADMIN_EMAIL"),
			AdminPassword:     os.Getenv("SEED_ADMIN_PASSWORD"),
			ReceptionistEmail: os.Getenv("SEED_RECEPTIONIST_EMAIL"),
			ReceptionistPass:  os.Getenv("SEED_RECEPTIONIST_PASSWORD"),
		},
	}
	if err := l.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN builds the MySQL data source name. parseTime makes DATETIME columns
// scan into time.Time, loc=UTC keeps them consistent and clientFoundRows
// makes RowsAffected count matched rows, not changed rows.
func (c Config) DSN() string {
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, c.DBHost, c.DBPort, c.DBName)
}

// amqpURL keeps the two variable names the broker clients accept.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

type loader struct {
	missing []string
	invalid []string
}

func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.missing = append(l.missing, key)
	}
	return v
}

func (l *loader) mustInt(key string) int {
	s := l.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.invalid = append(l.invalid, fmt.Sprintf("%s=%q", key, s))
	}
	return n
}

func (l *loader) err() error {
	var parts []string
	if len(l.missing) > 0 {
		parts = append(parts, "missing required env vars: "+strings.Join(l.missing, ", "))
	}
	if len(l.invalid) > 0 {
		parts = append(parts, "invalid int values: "+strings.Join(l.invalid, ", "))
	}
	if len(parts) == 0 {
		return nil
	}
	return fmt.Errorf("config: %s", strings.Join(parts, "; "))
}
