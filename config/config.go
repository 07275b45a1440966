package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	DB_DRIVER=postgres
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=garchcast
//	MODEL_STORE=fs
//	MODEL_DIR=./data/models
//	UPSTREAM_SOURCE=alphavantage
//	ALPHAVANTAGE_API_KEY=demo
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Database DatabaseConfig // Price store connection settings
	Postgres PostgresConfig // PostgreSQL connection settings
	Model    ModelConfig    // Fit, persistence and forecast settings
	S3       S3Config       // Artifact bucket, used when MODEL_STORE=s3
	Redis    RedisConfig    // Fit lock, used when REDIS_ADDR is set
	Kafka    KafkaConfig    // Fit events, used when KAFKA_BROKERS is set
	Upstream UpstreamConfig // Source of fresh prices
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Per-request deadline
	RateLimitRPS   float64       // Per-client requests per second; 0 disables limiting
	RateLimitBurst int           // Per-client burst
}

// DatabaseConfig selects the price store driver.
//
// Fields:
//   - Driver: "postgres" or "sqlite3".
//   - SQLitePath: database file used by the sqlite3 driver.
//   - URL: computed DSN handed to database/sql.
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	URL        string
}

// PostgresConfig defines connection details for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// ModelConfig bounds the GARCH fit and chooses where artifacts live.
type ModelConfig struct {
	Store          string // fs | sql | postgres | s3
	Dir            string // artifact directory for the fs store
	MinObsPerParam int
	MaxIterations  int
	MaxEvaluations int
	FitTimeout     time.Duration
	MaxHorizon     int
	Calendar       string // weekdays | b3
}

// S3Config points the s3 artifact store at a bucket. Endpoint is set for
// S3-compatible services such as MinIO.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// RedisConfig configures the distributed fit lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// KafkaConfig configures fit event publication.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// UpstreamConfig selects the source used by use_new_data and --mode ingest.
type UpstreamConfig struct {
	Source  string // alphavantage | csv | none
	APIKey  string
	BaseURL string
	CSVDir  string
	Timeout time.Duration
}

// Supported values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	SourceAlphaVantage = "alphavantage"
	SourceCSV          = "csv"
	SourceNone         = "none"
)

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app
//     with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Model: ModelConfig{
			Store:          strings.ToLower(viper.GetString("MODEL_STORE")),
			Dir:            viper.GetString("MODEL_DIR"),
			MinObsPerParam: viper.GetInt("MODEL_MIN_OBS_PER_PARAM"),
			MaxIterations:  viper.GetInt("MODEL_MAX_ITERATIONS"),
			MaxEvaluations: viper.GetInt("MODEL_MAX_EVALUATIONS"),
			FitTimeout:     viper.GetDuration("FIT_TIMEOUT"),
			MaxHorizon:     viper.GetInt("MAX_HORIZON"),
			Calendar:       strings.ToLower(viper.GetString("TRADING_CALENDAR")),
		},
		S3: S3Config{
			Bucket:          viper.GetString("S3_BUCKET"),
			Prefix:          viper.GetString("S3_PREFIX"),
			Region:          viper.GetString("AWS_REGION"),
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			PathStyle:       viper.GetBool("S3_PATH_STYLE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			LockTTL:  viper.GetDuration("FIT_LOCK_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Upstream: UpstreamConfig{
			Source:  strings.ToLower(viper.GetString("UPSTREAM_SOURCE")),
			APIKey:  viper.GetString("ALPHAVANTAGE_API_KEY"),
			BaseURL: viper.GetString("ALPHAVANTAGE_URL"),
			CSVDir:  viper.GetString("UPSTREAM_CSV_DIR"),
			Timeout: viper.GetDuration("UPSTREAM_TIMEOUT"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.dsn()
	AppConfig.Database.URL = AppConfig.DSN()

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "2m")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("SQLITE_PATH", "./data/garchcast.db")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "garchcast")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("MODEL_STORE", "fs")
	viper.SetDefault("MODEL_DIR", "./data/models")
	viper.SetDefault("MODEL_MIN_OBS_PER_PARAM", 10)
	viper.SetDefault("MODEL_MAX_ITERATIONS", 5000)
	viper.SetDefault("MODEL_MAX_EVALUATIONS", 20000)
	viper.SetDefault("FIT_TIMEOUT", "90s")
	viper.SetDefault("MAX_HORIZON", 365)
	viper.SetDefault("TRADING_CALENDAR", "weekdays")

	viper.SetDefault("S3_PREFIX", "models")
	viper.SetDefault("AWS_REGION", "us-east-1")

	viper.SetDefault("FIT_LOCK_TTL", "5m")
	viper.SetDefault("KAFKA_TOPIC", "garchcast.model-fitted")

	viper.SetDefault("UPSTREAM_SOURCE", SourceCSV)
	viper.SetDefault("ALPHAVANTAGE_URL", "https://www.alphavantage.co")
	viper.SetDefault("UPSTREAM_CSV_DIR", "./data/prices")
	viper.SetDefault("UPSTREAM_TIMEOUT", "30s")
}

// DSN returns the database/sql data source name of the configured driver.
func (c Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return "file:" + c.Database.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
	}
	if c.Postgres.URL != "" {
		return c.Postgres.URL
	}
	return c.Postgres.dsn()
}

func (p PostgresConfig) dsn() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	if problems := AppConfig.problems(); len(problems) > 0 {
		log.Fatalf("❌ Invalid configuration: %v\n", problems)
	}
}

// problems lists missing or invalid variables, by name.
func (c Config) problems() []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if c.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if c.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	default:
		missing = append(missing, "DB_DRIVER (postgres|sqlite3)")
	}

	switch c.Model.Store {
	case "fs":
		if c.Model.Dir == "" {
			missing = append(missing, "MODEL_DIR")
		}
	case "sql", "postgres":
	case "s3":
		if c.S3.Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		missing = append(missing, "MODEL_STORE (fs|sql|s3)")
	}

	switch c.Upstream.Source {
	case SourceAlphaVantage:
		if c.Upstream.APIKey == "" {
			missing = append(missing, "ALPHAVANTAGE_API_KEY")
		}
	case SourceCSV:
		if c.Upstream.CSVDir == "" {
			missing = append(missing, "UPSTREAM_CSV_DIR")
		}
	case SourceNone:
	default:
		missing = append(missing, "UPSTREAM_SOURCE (alphavantage|csv|none)")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		missing = append(missing, "KAFKA_TOPIC")
	}
	if c.Model.MaxHorizon < 1 {
		missing = append(missing, "MAX_HORIZON")
	}
	return missing
}
