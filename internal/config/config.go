// Package config loads the mailcast server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/mailcast/pkg/db"
	"github.com/dmitrymomot/mailcast/pkg/logger"
	"github.com/dmitrymomot/mailcast/pkg/mailer"
	"github.com/dmitrymomot/mailcast/pkg/mailer/logsender"
	"github.com/dmitrymomot/mailcast/pkg/mailer/resend"
	"github.com/dmitrymomot/mailcast/pkg/mailer/ses"
	"github.com/dmitrymomot/mailcast/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailcast/pkg/redis"
)

// Mail transports.
const (
	TransportResend = "resend"
	TransportSES    = "ses"
	TransportSMTP   = "smtp"
	TransportLog    = "log"
)

// Storage drivers for named lists and the failure log.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrParse is returned when the environment cannot be decoded.
	ErrParse = errors.New("config: failed to parse environment")
)

// Config is the complete server configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	BodyLimit       int64         `env:"HTTP_BODY_LIMIT" envDefault:"10485760"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPath     string        `env:"METRICS_PATH" envDefault:"/metrics"`

	Transport   string        `env:"MAIL_TRANSPORT" envDefault:"log"`
	SendTimeout time.Duration `env:"DISPATCH_SEND_TIMEOUT" envDefault:"30s"`

	Storage       string `env:"STORAGE_DRIVER" envDefault:"memory"`
	StoragePrefix string `env:"STORAGE_PREFIX" envDefault:"mailcast"`

	FailureRetention     time.Duration `env:"FAILURE_LOG_RETENTION" envDefault:"720h"`
	FailurePruneSchedule string        `env:"FAILURE_LOG_PRUNE_SCHEDULE" envDefault:"@daily"`

	Log     logger.Config
	Sentry  logger.SentryConfig
	Mail    mailer.Config
	Resend  resend.Config
	SES     ses.Config
	SMTP    smtp.Config
	LogMail logsender.Config
	Redis   redis.Config
	DB      db.Config
}

// Load reads the given dotenv files (".env" when none are given) if they
// exist, then parses and validates the process environment.
// Variables already set in the environment take precedence over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, f, err)
		}
	}
	return parse(env.Options{})
}

// FromMap parses and validates configuration from an explicit variable set
// instead of the process environment.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, fmt.Errorf("%w: HTTP_ADDR is empty", ErrInvalid))
	}
	if c.BodyLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: HTTP_BODY_LIMIT must be positive", ErrInvalid))
	}

	switch c.Transport {
	case TransportResend:
		if c.Resend.APIKey == "" {
			errs = append(errs, fmt.Errorf("%w: RESEND_API_KEY is required for the resend transport", ErrInvalid))
		}
	case TransportSMTP:
		if c.SMTP.Host == "" {
			errs = append(errs, fmt.Errorf("%w: SMTP_HOST is required for the smtp transport", ErrInvalid))
		}
	case TransportSES, TransportLog:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown MAIL_TRANSPORT %q", ErrInvalid, c.Transport))
	}
	if c.SendTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: DISPATCH_SEND_TIMEOUT must not be negative", ErrInvalid))
	}

	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.Redis.URL == "" {
			errs = append(errs, fmt.Errorf("%w: REDIS_URL is required for the redis storage driver", ErrInvalid))
		}
	case StoragePostgres:
		if c.DB.ConnectionString == "" {
			errs = append(errs, fmt.Errorf("%w: DATABASE_CONN_URL is required for the postgres storage driver", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalid, c.Storage))
	}

	if c.FailureRetention > 0 {
		if _, err := cron.ParseStandard(c.FailurePruneSchedule); err != nil {
			errs = append(errs, fmt.Errorf("%w: FAILURE_LOG_PRUNE_SCHEDULE: %w", ErrInvalid, err))
		}
	}

	if c.MetricsEnabled && (c.MetricsPath == "" || c.MetricsPath[0] != '/') {
		errs = append(errs, fmt.Errorf("%w: METRICS_PATH must start with /", ErrInvalid))
	}

	return errors.Join(errs...)
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (c *Config) AllowsAnyOrigin() bool {
	return slices.Contains(c.CORSOrigins, "*")
}
