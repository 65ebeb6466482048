package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Window WindowConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type StoreBackend string

const (
	BackendSnapshot StoreBackend = "snapshot"
	BackendPostgres StoreBackend = "postgres"
	BackendSQLite   StoreBackend = "sqlite"
)

type StoreConfig struct {
	Backend       StoreBackend  `envconfig:"STORE_BACKEND" default:"snapshot"`
	DataDir       string        `envconfig:"DATA_DIR" default:"Data"`
	SnapshotFile  string        `envconfig:"SNAPSHOT_FILE" default:"bookings.json"`
	SQLiteFile    string        `envconfig:"SQLITE_FILE" default:"bookings.db"`
	PurgeInterval time.Duration `envconfig:"PURGE_INTERVAL" default:"1h"`
}

type WindowConfig struct {
	Policy           string        `envconfig:"WINDOW_POLICY" default:"calendar-week"`
	TimeZone         string        `envconfig:"WINDOW_TIMEZONE" default:"Asia/Taipei"`
	TimeZoneFallback string        `envconfig:"WINDOW_TIMEZONE_FALLBACK" default:"ROC"`
	Retention        time.Duration `envconfig:"WINDOW_RETENTION" default:"168h"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"booking"`
	Password    string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"booking"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"UTC"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Taipei"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"28800"` // 8*60*60
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *StoreConfig) SnapshotPath() string {
	return filepath.Join(c.DataDir, c.SnapshotFile)
}

func (c *StoreConfig) SQLitePath() string {
	return filepath.Join(c.DataDir, c.SQLiteFile)
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendSnapshot, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Store.PurgeInterval <= 0 {
		return fmt.Errorf("PURGE_INTERVAL must be positive, got %s", c.Store.PurgeInterval)
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{
			Backend:       BackendSnapshot,
			DataDir:       "Data",
			SnapshotFile:  "bookings.json",
			SQLiteFile:    "bookings.db",
			PurgeInterval: time.Hour,
		},
		Window: WindowConfig{
			Policy:           "calendar-week",
			TimeZone:         "Asia/Taipei",
			TimeZoneFallback: "ROC",
			Retention:        7 * 24 * time.Hour,
		},
		DB: DBConfig{
			Host:        "localhost",
			Port:        "15433", // Test DB port
			User:        "test",
			Password:    "test",
			DBName:      "test_db",
			SSLMode:     "disable",
			TimeZone:    "UTC",
			AutoMigrate: true,
			MaxConns:    4,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Taipei",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 28800,
		},
	}
}
