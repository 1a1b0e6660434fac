package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Profile  *Profile
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimitMB  int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// LedgerConfig selects where ledger rows, audit events and accounts are persisted.
type LedgerConfig struct {
	Backend   string // file or postgres
	FilePath  string
	AuditPath string
	UsersPath string
}

type StorageConfig struct {
	Backend    string // local or s3
	LocalDir   string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

const (
	LedgerBackendFile     = "file"
	LedgerBackendPostgres = "postgres"

	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

func Load() (*Config, error) {
	// .env is optional; plain environment variables win in containers
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	bodyLimit, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "20"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	lockTTL, _ := strconv.Atoi(getEnv("REDIS_LOCK_TTL_SECONDS", "30"))

	profile, err := LoadProfile(getEnv("ORG_PROFILE_PATH", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to load organization profile: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimitMB:  bodyLimit,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ngo_filer"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Ledger: LedgerConfig{
			Backend:   getEnv("LEDGER_BACKEND", LedgerBackendFile),
			FilePath:  getEnv("LEDGER_FILE", "ledger.json"),
			AuditPath: getEnv("AUDIT_TRAIL_FILE", "audit_trail.jsonl"),
			UsersPath: getEnv("USERS_FILE", "users.json"),
		},
		Storage: StorageConfig{
			Backend:    getEnv("STORAGE_BACKEND", StorageBackendLocal),
			LocalDir:   getEnv("STORAGE_DIR", "invoice_storage"),
			S3Bucket:   getEnv("S3_BUCKET", ""),
			S3Region:   getEnv("S3_REGION", "us-east-1"),
			S3Endpoint: getEnv("S3_ENDPOINT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			LockTTL:  time.Duration(lockTTL) * time.Second,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Profile: profile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects backend combinations the app cannot run safely.
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case LedgerBackendPostgres:
	case LedgerBackendFile:
		// The file ledger is owned by a single process; Redis locks imply several.
		if c.Redis.Addr != "" {
			return fmt.Errorf("REDIS_ADDR requires LEDGER_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.Ledger.Backend)
	}
	switch c.Storage.Backend {
	case StorageBackendLocal:
	case StorageBackendS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
