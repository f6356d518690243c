package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/assumable-map/internal/pkg/validator"
)

type Config struct {
	Log       LogConfig
	Cache     CacheConfig
	Map       MapConfig
	Export    ExportConfig
	Assumable AssumableConfig
	Schools   SchoolsConfig
	Database  DatabaseConfig
}

type LogConfig struct {
	Level string
	File  string
}

type CacheConfig struct {
	Dir string `validate:"required"`
}

type MapConfig struct {
	OutputPath string `validate:"required"`
	// AllowEmpty makes a pointless run succeed with an empty artifact instead
	// of reporting NOTHING_TO_RENDER.
	AllowEmpty bool
}

type ExportConfig struct {
	CSVPath string
}

// AssumableConfig carries the listing source token and session cookies.
type AssumableConfig struct {
	BaseURL             string
	Token               string
	XSRFToken           string
	CfClearance         string
	BotbleSession       string
	RememberAccountName string
	RememberAccount     string
	Location            string
	GeoID               int
	Viewport            string
	RequestTimeout      time.Duration
}

// SchoolsConfig carries the school overlay source credentials and query
// parameters. Enabled gates the whole overlay stage.
type SchoolsConfig struct {
	Enabled        bool
	BaseURL        string
	UserAgent      string
	CSRFToken      string
	CSRFCookie     string
	City           string
	State          string
	DistanceMiles  int
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env is fine; env vars alone are enough.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
			File:  viper.GetString("LOG_FILE"),
		},
		Cache: CacheConfig{
			Dir: viper.GetString("CACHE_DIR"),
		},
		Map: MapConfig{
			OutputPath: viper.GetString("MAP_OUTPUT"),
			AllowEmpty: viper.GetBool("MAP_ALLOW_EMPTY"),
		},
		Export: ExportConfig{
			CSVPath: viper.GetString("CSV_OUTPUT"),
		},
		Assumable: AssumableConfig{
			BaseURL:             viper.GetString("ASSUMABLE_BASE_URL"),
			Token:               viper.GetString("ASSUMABLE_TOKEN"),
			XSRFToken:           viper.GetString("XSRF_TOKEN"),
			CfClearance:         viper.GetString("CF_CLEARANCE"),
			BotbleSession:       viper.GetString("BOTBLE_SESSION"),
			RememberAccountName: viper.GetString("REMEMBER_ACCOUNT_NAME"),
			RememberAccount:     viper.GetString("REMEMBER_ACCOUNT"),
			Location:            viper.GetString("ASSUMABLE_LOCATION"),
			GeoID:               viper.GetInt("ASSUMABLE_GEO_ID"),
			Viewport:            viper.GetString("ASSUMABLE_VIEWPORT"),
			RequestTimeout:      time.Duration(viper.GetInt("ASSUMABLE_REQUEST_TIMEOUT")) * time.Second,
		},
		Schools: SchoolsConfig{
			Enabled:        viper.GetBool("SCHOOLS_ENABLED"),
			BaseURL:        viper.GetString("GS_BASE_URL"),
			UserAgent:      viper.GetString("GS_USER_AGENT"),
			CSRFToken:      viper.GetString("GS_CSRF_TOKEN"),
			CSRFCookie:     viper.GetString("GS_COOKIE"),
			City:           viper.GetString("GS_CITY"),
			State:          viper.GetString("GS_STATE"),
			DistanceMiles:  viper.GetInt("GS_DISTANCE"),
			RequestTimeout: time.Duration(viper.GetInt("GS_REQUEST_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = ".cache"
	}
	if cfg.Map.OutputPath == "" {
		cfg.Map.OutputPath = "map.html"
	}
	if cfg.Export.CSVPath == "" {
		cfg.Export.CSVPath = "listings.csv"
	}
	if cfg.Assumable.BaseURL == "" {
		cfg.Assumable.BaseURL = "https://app.assumable.io"
	}
	if cfg.Assumable.Location == "" {
		cfg.Assumable.Location = "New York"
	}
	if cfg.Assumable.GeoID == 0 {
		cfg.Assumable.GeoID = 3269
	}
	if cfg.Assumable.Viewport == "" {
		cfg.Assumable.Viewport = "-76.8612404491507,37.73641064455742,-72.41452414055695,43.07531462025779"
	}
	if cfg.Assumable.RequestTimeout == 0 {
		cfg.Assumable.RequestTimeout = 30 * time.Second
	}
	if cfg.Schools.BaseURL == "" {
		cfg.Schools.BaseURL = "https://www.greatschools.org"
	}
	if cfg.Schools.UserAgent == "" {
		cfg.Schools.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
	}
	if cfg.Schools.City == "" {
		cfg.Schools.City = "The Bronx"
	}
	if cfg.Schools.State == "" {
		cfg.Schools.State = "NY"
	}
	if cfg.Schools.DistanceMiles == 0 {
		cfg.Schools.DistanceMiles = 18
	}
	if cfg.Schools.RequestTimeout == 0 {
		cfg.Schools.RequestTimeout = 30 * time.Second
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if err := validator.Validate(cfg.Cache); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}
	if err := validator.Validate(cfg.Map); err != nil {
		return nil, fmt.Errorf("invalid map config: %w", err)
	}

	return cfg, nil
}

// ExportToPostgres reports whether a Postgres export target is configured.
func (c *Config) ExportToPostgres() bool {
	return c.Database.Host != "" && c.Database.DBName != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
