package smtp

import "time"

// Config holds SMTP relay configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host               string        `env:"SMTP_HOST"`
	Port               int           `env:"SMTP_PORT" envDefault:"587"`
	Username           string        `env:"SMTP_USERNAME"`
	Password           string        `env:"SMTP_PASSWORD"`
	TLSMode            string        `env:"SMTP_TLS_MODE" envDefault:"starttls"` // starttls | ssl | none | auto
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY"`
	SenderEmail        string        `env:"SMTP_FROM_EMAIL"`
	SenderName         string        `env:"SMTP_FROM_NAME"`
	Timeout            time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
}
