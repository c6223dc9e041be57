package mailer

// Config holds provider-independent delivery settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	PlainText bool   `env:"MAIL_PLAIN_TEXT" envDefault:"true"`
	ReplyTo   string `env:"MAIL_REPLY_TO"`
	Tag       string `env:"MAIL_TAG" envDefault:"mailcast"`
}
