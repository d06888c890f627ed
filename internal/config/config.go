package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Inherited operator credentials. Used only when ADMIN_USERNAME / ADMIN_PASSWORD
// are not set; Load logs a warning when they are active.
const (
	DefaultAdminUsername = "diegomdk"
	DefaultAdminPassword = "506731"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Storage: "db" keeps base64 blobs in the database, "s3" uses an S3-compatible bucket
	StorageDriver string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)

	// Uploads
	MaxUploadSize int64
	MaxSaveSize   int64
	StrictUploads bool // reject uploads that fail type, platform or archive checks

	// Honor X-Forwarded-For / X-Real-IP; enable only behind a reverse proxy
	TrustProxyHeaders bool

	// Admin auth
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword
	AuthTokenSecret   string // empty = random per process
	AuthTokenTTL      time.Duration
	AuthTokenCapacity int
	LoginRateLimit    int
	LoginRateWindow   time.Duration

	// Token store shared across replicas (optional)
	RedisURL string

	// ROM proxy
	RomProxyAllowedHosts []string
	RomProxyUserAgent    string
	RomProxyMaxRedirects int
	RomProxyTimeout      time.Duration // 0 = no timeout of its own

	// Emulator widget
	EmulatorDataPath string

	// Logging
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Retrocade"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/retrocade.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "db"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),

		// Uploads
		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", 512<<20), // 512MB
		MaxSaveSize:   envInt64("MAX_SAVE_SIZE", 64<<20),    // 64MB
		StrictUploads: envBool("STRICT_UPLOADS", false),

		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		// Admin auth
		AdminUsername:     envString("ADMIN_USERNAME", DefaultAdminUsername),
		AdminPassword:     envString("ADMIN_PASSWORD", DefaultAdminPassword),
		AdminPasswordHash: envString("ADMIN_PASSWORD_HASH", ""),
		AuthTokenSecret:   envString("AUTH_TOKEN_SECRET", ""),
		AuthTokenTTL:      envDuration("AUTH_TOKEN_TTL", 168*time.Hour), // 7 days
		AuthTokenCapacity: envInt("AUTH_TOKEN_CAPACITY", 1024),
		LoginRateLimit:    envInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:   envDuration("LOGIN_RATE_WINDOW", 15*time.Minute),

		RedisURL: envString("REDIS_URL", ""),

		// ROM proxy
		RomProxyAllowedHosts: envList("ROM_PROXY_ALLOWED_HOSTS", []string{"archive.org"}),
		RomProxyUserAgent:    envString("ROM_PROXY_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RomProxyMaxRedirects: envInt("ROM_PROXY_MAX_REDIRECTS", 5),
		RomProxyTimeout:      envDuration("ROM_PROXY_TIMEOUT", 0),

		EmulatorDataPath: envString("EMULATOR_DATA_PATH", "https://cdn.emulatorjs.org/stable/data/"),

		// Logging
		LogFile:       envString("LOG_FILE", ""),
		LogMaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: envInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 30),
		LogCompress:   envBool("LOG_COMPRESS", true),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == "s3" {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
	}

	if cfg.UsesDefaultCredentials() {
		slog.Warn("using built-in admin credentials",
			"hint", "set ADMIN_USERNAME and ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects settings that only work on a single development instance.
func validateProduction(cfg *Config) {
	if cfg.AuthTokenSecret == "" && cfg.RedisURL != "" {
		slog.Error("shared token store requires AUTH_TOKEN_SECRET",
			"hint", "all replicas must sign tokens with the same secret")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int64, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated value, dropping blanks.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesDefaultCredentials reports whether the inherited operator pair is active.
func (c *Config) UsesDefaultCredentials() bool {
	return c.AdminPasswordHash == "" &&
		c.AdminUsername == DefaultAdminUsername &&
		c.AdminPassword == DefaultAdminPassword
}
