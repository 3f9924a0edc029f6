package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig gathers the settings needed to run the service.
type AppConfig struct {
	ListenAddr string `envconfig:"LISTEN_ADDR"`
	Port       string `envconfig:"PORT" default:"8080"`
	GinMode    string `envconfig:"GIN_MODE" default:"release"`
	AppEnv     string `envconfig:"APP_ENV" default:"production"`

	DBDriver     string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"data/sachpatra.db"`
	DatabaseDSN  string `envconfig:"DATABASE_DSN"`

	SessionSecret      string   `envconfig:"SESSION_SECRET" default:"sachpatra-dev-secret"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	SiteBaseURL        string   `envconfig:"SITE_BASE_URL" default:"http://localhost:8080"`
	SiteTimezone       string   `envconfig:"SITE_TIMEZONE" default:"Asia/Kolkata"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"data/uploads"`
	UploadURLPath  string `envconfig:"UPLOAD_URL_PATH" default:"/uploads"`
	UploadMaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"5242880"`

	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"ap-south-1"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	TranslateProvider    string        `envconfig:"TRANSLATE_PROVIDER" default:"google"`
	TranslateBaseURL     string        `envconfig:"TRANSLATE_BASE_URL"`
	TranslateTimeout     time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"8s"`
	TranslationCacheSize int           `envconfig:"TRANSLATION_CACHE_SIZE" default:"2048"`
	OpenAIAPIKey         string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel          string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL        string        `envconfig:"OPENAI_BASE_URL"`

	CategoryFetchDelay  time.Duration `envconfig:"CATEGORY_FETCH_DELAY" default:"100ms"`
	CommentsAutoApprove bool          `envconfig:"COMMENTS_AUTO_APPROVE" default:"true"`

	CronTabsSchedule     string `envconfig:"CRON_TABS_SCHEDULE" default:"@every 5m"`
	CronBackfillSchedule string `envconfig:"CRON_BACKFILL_SCHEDULE" default:"30 3 * * *"`

	SuperRootEmail    string `envconfig:"SUPER_ROOT_EMAIL"`
	SuperRootPassword string `envconfig:"SUPER_ROOT_PASSWORD"`
}

// Load reads .env and the environment, filling defaults for anything unset.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.TranslateProvider = strings.ToLower(strings.TrimSpace(c.TranslateProvider))
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	c.SuperRootEmail = strings.ToLower(strings.TrimSpace(c.SuperRootEmail))
	c.SuperRootPassword = strings.TrimSpace(c.SuperRootPassword)
}

// Validate checks combinations envconfig cannot express.
func (c AppConfig) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			return fmt.Errorf("DATABASE_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.TranslateProvider {
	case "google", "none":
	case "openai":
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSLATE_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unsupported TRANSLATE_PROVIDER %q", c.TranslateProvider)
	}
	if _, err := time.LoadLocation(c.SiteTimezone); err != nil {
		return fmt.Errorf("invalid SITE_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseTarget returns the sqlite path or the postgres DSN.
func (c AppConfig) DatabaseTarget() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

// Location returns the site timezone, falling back to IST.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.SiteTimezone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// S3Enabled reports whether uploads go to object storage.
func (c AppConfig) S3Enabled() bool {
	return strings.TrimSpace(c.S3Bucket) != ""
}

// Development reports whether the process runs with development logging.
func (c AppConfig) Development() bool {
	return strings.EqualFold(c.AppEnv, "development") || strings.EqualFold(c.AppEnv, "dev")
}
