package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Values come from defaults, then an optional TOML file, then the environment.
type Config struct {
	Port string `toml:"port"`

	JWTSecret  string        `toml:"jwt_secret"`
	TokenTTL   time.Duration `toml:"token_ttl"`
	BcryptCost int           `toml:"bcrypt_cost"`

	DBDriver   string `toml:"db_driver"` // "sqlite" or "mysql"
	SQLitePath string `toml:"sqlite_path"`
	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`
	DBLogLevel string `toml:"db_log_level"` // silent, error, warn, info

	StorageBackend  string `toml:"storage_backend"` // "local" or "minio"
	UploadDir       string `toml:"upload_dir"`      // Base directory of the local file area
	UploadURLPrefix string `toml:"upload_url_prefix"`
	MaxUploadBytes  int64  `toml:"max_upload_bytes"`
	UploadPolicy    string `toml:"upload_policy"` // "admin" or "authenticated"

	MinioEndpoint  string `toml:"minio_endpoint"`
	MinioAccessKey string `toml:"minio_access_key"`
	MinioSecretKey string `toml:"minio_secret_key"`
	MinioBucket    string `toml:"minio_bucket"`
	MinioUseSSL    bool   `toml:"minio_use_ssl"`
	MinioRegion    string `toml:"minio_region"`

	AdminLogin    string `toml:"admin_login"`
	AdminPassword string `toml:"admin_password"`

	ExternalAudioURLBase string `toml:"external_audio_url_base"`
	ExternalCoverURLBase string `toml:"external_cover_url_base"`

	AuthRatePerMinute int `toml:"auth_rate_per_minute"` // 0 disables throttling
	AuthRateBurst     int `toml:"auth_rate_burst"`

	WebAppDir string `toml:"web_app_dir"` // Prebuilt client served at "/"

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

const (
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "adminpass"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:                 "5000",
		TokenTTL:             7 * 24 * time.Hour,
		BcryptCost:           10,
		DBDriver:             "sqlite",
		SQLitePath:           filepath.Join("data", "tunebox.db"),
		DBHost:               "127.0.0.1",
		DBPort:               "3306",
		DBUser:               "root",
		DBName:               "tunebox",
		DBLogLevel:           "warn",
		StorageBackend:       "local",
		UploadDir:            "uploads",
		UploadURLPrefix:      "/uploads",
		MaxUploadBytes:       100 << 20, // 100MB
		UploadPolicy:         "admin",
		MinioBucket:          "tunebox",
		AdminLogin:           DefaultAdminLogin,
		AdminPassword:        DefaultAdminPassword,
		ExternalAudioURLBase: "https://drive.google.com/uc?export=download&id=",
		ExternalCoverURLBase: "https://drive.google.com/uc?export=view&id=",
		AuthRatePerMinute:    20,
		AuthRateBurst:        5,
		WebAppDir:            filepath.Join("web", "ui"),
		LogLevel:             "info",
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// LoadFile loads configuration from defaults, the TOML file at path (skipped when
// path is empty) and finally environment variables (via .env file).
func LoadFile(path string) (*Config, error) {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.TokenTTL = getEnvDuration("TOKEN_TTL", c.TokenTTL)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)

	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBLogLevel = getEnv("DB_LOG_LEVEL", c.DBLogLevel)

	c.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", c.StorageBackend))
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.UploadURLPrefix = getEnv("UPLOAD_URL_PREFIX", c.UploadURLPrefix)
	c.MaxUploadBytes = getEnvInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.UploadPolicy = strings.ToLower(getEnv("UPLOAD_POLICY", c.UploadPolicy))

	c.MinioEndpoint = getEnv("MINIO_ENDPOINT", c.MinioEndpoint)
	c.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", c.MinioAccessKey)
	c.MinioSecretKey = getEnv("MINIO_SECRET_KEY", c.MinioSecretKey)
	c.MinioBucket = getEnv("MINIO_BUCKET", c.MinioBucket)
	c.MinioUseSSL = getEnvBool("MINIO_USE_SSL", c.MinioUseSSL)
	c.MinioRegion = getEnv("MINIO_REGION", c.MinioRegion)

	c.AdminLogin = getEnv("ADMIN_LOGIN", c.AdminLogin)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)

	c.ExternalAudioURLBase = getEnv("EXTERNAL_AUDIO_URL_BASE", c.ExternalAudioURLBase)
	c.ExternalCoverURLBase = getEnv("EXTERNAL_COVER_URL_BASE", c.ExternalCoverURLBase)

	c.AuthRatePerMinute = getEnvInt("AUTH_RATE_PER_MINUTE", c.AuthRatePerMinute)
	c.AuthRateBurst = getEnvInt("AUTH_RATE_BURST", c.AuthRateBurst)

	c.WebAppDir = getEnv("WEB_APP_DIR", c.WebAppDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or mysql)", c.DBDriver)
	}
	switch c.StorageBackend {
	case "local", "minio":
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (want local or minio)", c.StorageBackend)
	}
	switch c.UploadPolicy {
	case "admin", "authenticated":
	default:
		return fmt.Errorf("unsupported UPLOAD_POLICY %q (want admin or authenticated)", c.UploadPolicy)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.AdminLogin == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_LOGIN and ADMIN_PASSWORD must not be empty")
	}
	if !strings.HasPrefix(c.UploadURLPrefix, "/") {
		c.UploadURLPrefix = "/" + c.UploadURLPrefix
	}
	c.UploadURLPrefix = strings.TrimRight(c.UploadURLPrefix, "/")
	if c.UploadURLPrefix == "" {
		return fmt.Errorf("UPLOAD_URL_PREFIX must not be the root path")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
