package config

import (
	"os"
	"strconv"
	"strings"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string

	// Database
	DBDriver         string // postgres | pgx | memory
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	DBPasswordSecret string // Secret Manager resource name; wins over DBPassword
	DBAutoMigrate    bool

	// Google Cloud
	GCPProjectID             string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	OrdersCollection         string

	// Mail (SendGrid). Empty API key disables order confirmation mail.
	SendGridAPIKey string
	MailFrom       string

	MetricsEnabled bool
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		DBDriver:         strings.ToLower(getenvDefault("DB_DRIVER", "postgres")),
		DBHost:           getenvDefault("DB_HOST", "localhost"),
		DBPort:           getenvDefault("DB_PORT", "5432"),
		DBUser:           getenvDefault("DB_USER", "postgres"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenvDefault("DB_NAME", "donut"),
		DBSSLMode:        getenvDefault("DB_SSLMODE", "disable"),
		DBPasswordSecret: strings.TrimSpace(os.Getenv("DB_PASSWORD_SECRET")),
		DBAutoMigrate:    getenvBool("DB_AUTO_MIGRATE", false),

		GCPProjectID:             defaultProject,
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		OrdersCollection:         getenvDefault("ORDERS_COLLECTION", "orders"),

		SendGridAPIKey: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		MailFrom:       getenvDefault("MAIL_FROM", "no-reply@example.com"),

		MetricsEnabled: getenvBool("METRICS_ENABLED", true),
	}
}

// UsesMemoryStore reports whether DB_DRIVER selects the in-process store.
func (c *Config) UsesMemoryStore() bool {
	return c.DBDriver == "memory"
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

// CredentialsFile returns the credentials file shared by the GCP clients.
func (c *Config) CredentialsFile() string {
	if f := strings.TrimSpace(c.FirestoreCredentialsFile); f != "" {
		return f
	}
	return strings.TrimSpace(c.GCPCreds)
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
