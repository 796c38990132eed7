package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress       = "localhost:8080"
	defaultMigrations       = "migrations"
	defaultRequestsPerHour  = 100
	defaultScrapePerHour    = 60
	defaultHTTPTimeout      = 30 * time.Second
	defaultSyncAllTimeout   = 10 * time.Minute
	defaultMaxRedirects     = 5
	defaultSyncCron         = "0 */6 * * *"
	defaultTokenExpirySlack = 60 * time.Second
)

type Config struct {
	Env       string
	DB        db
	Server    server
	Logger    logger
	SIPAC     SIPAC
	Scheduler scheduler
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
	APIToken   string `env:"API_TOKEN"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// SIPAC holds everything needed to reach the remote institutional system:
// the OAuth token endpoint, the data API and the scraping gateway.
type SIPAC struct {
	BaseURL               string        `env:"SIPAC_BASE_URL"`
	ScrapeURL             string        `env:"SIPAC_SCRAPE_URL"`
	TokenURL              string        `env:"SIPAC_TOKEN_URL"`
	ClientID              string        `env:"SIPAC_CLIENT_ID"`
	ClientSecret          string        `env:"SIPAC_CLIENT_SECRET"`
	Scope                 string        `env:"SIPAC_SCOPE"`
	APIKey                string        `env:"SIPAC_API_KEY"`
	RequestsPerHour       int           `env:"SIPAC_REQUESTS_PER_HOUR"`
	ScrapeRequestsPerHour int           `env:"SIPAC_SCRAPE_REQUESTS_PER_HOUR"`
	HTTPTimeout           time.Duration `env:"SIPAC_HTTP_TIMEOUT"`
	SyncAllTimeout        time.Duration `env:"SIPAC_SYNC_ALL_TIMEOUT"`
	MaxRedirects          int           `env:"SIPAC_MAX_REDIRECTS"`
	TokenExpirySlack      time.Duration
}

type scheduler struct {
	Enabled  bool   `env:"SYNC_SCHEDULE_ENABLED"`
	SyncCron string `env:"SYNC_CRON"`
}

func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	config := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{
			RunAddress: viper.GetString("run_address"),
			APIToken:   viper.GetString("api_token"),
		},
		Logger: logger{LogLevel: viper.GetString("log_level")},
		SIPAC: SIPAC{
			BaseURL:               viper.GetString("sipac_base_url"),
			ScrapeURL:             viper.GetString("sipac_scrape_url"),
			TokenURL:              viper.GetString("sipac_token_url"),
			ClientID:              viper.GetString("sipac_client_id"),
			ClientSecret:          viper.GetString("sipac_client_secret"),
			Scope:                 viper.GetString("sipac_scope"),
			APIKey:                viper.GetString("sipac_api_key"),
			RequestsPerHour:       viper.GetInt("sipac_requests_per_hour"),
			ScrapeRequestsPerHour: viper.GetInt("sipac_scrape_requests_per_hour"),
			HTTPTimeout:           viper.GetDuration("sipac_http_timeout"),
			SyncAllTimeout:        viper.GetDuration("sipac_sync_all_timeout"),
			MaxRedirects:          viper.GetInt("sipac_max_redirects"),
			TokenExpirySlack:      defaultTokenExpirySlack,
		},
		Scheduler: scheduler{
			Enabled:  viper.GetBool("sync_schedule_enabled"),
			SyncCron: viper.GetString("sync_cron"),
		},
	}

	applyDefaults(&config)
	return &config
}

func applyDefaults(c *Config) {
	if c.Server.RunAddress == "" {
		c.Server.RunAddress = defaultRunAddress
	}
	if c.DB.Migrations == "" {
		c.DB.Migrations = defaultMigrations
	}
	if c.SIPAC.RequestsPerHour <= 0 {
		c.SIPAC.RequestsPerHour = defaultRequestsPerHour
	}
	if c.SIPAC.ScrapeRequestsPerHour <= 0 {
		c.SIPAC.ScrapeRequestsPerHour = defaultScrapePerHour
	}
	if c.SIPAC.HTTPTimeout <= 0 {
		c.SIPAC.HTTPTimeout = defaultHTTPTimeout
	}
	if c.SIPAC.SyncAllTimeout <= 0 {
		c.SIPAC.SyncAllTimeout = defaultSyncAllTimeout
	}
	if c.SIPAC.MaxRedirects <= 0 {
		c.SIPAC.MaxRedirects = defaultMaxRedirects
	}
	if c.Scheduler.SyncCron == "" {
		c.Scheduler.SyncCron = defaultSyncCron
	}
}
