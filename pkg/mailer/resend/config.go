package resend

import "time"

// Config selects the Resend account and the default sender used when a
// dispatch request carries no from address.
type Config struct {
	APIKey      string        `env:"RESEND_API_KEY"`
	SenderEmail string        `env:"RESEND_FROM_EMAIL"`
	SenderName  string        `env:"RESEND_FROM_NAME"`
	BaseURL     string        `env:"RESEND_BASE_URL"` // tests and API proxies
	Timeout     time.Duration `env:"RESEND_TIMEOUT" envDefault:"15s"`
}
