package ses

// Config holds Amazon SES (v2 API) configuration.
// Embed this in your app config for env parsing with caarlos0/env.
//
// With empty keys the default AWS credential chain is used.
type Config struct {
	Region           string `env:"SES_REGION" envDefault:"us-east-1"`
	AccessKeyID      string `env:"SES_ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"SES_SECRET_ACCESS_KEY"`
	SenderEmail      string `env:"SES_FROM_EMAIL"`
	SenderName       string `env:"SES_FROM_NAME"`
	ConfigurationSet string `env:"SES_CONFIGURATION_SET"`
	Endpoint         string `env:"SES_ENDPOINT"`
}
