// Package mailer connects mail providers to the dispatch engine and turns
// markdown drafts into HTML bodies.
//
// # Architecture
//
// The package consists of three main components:
//
//   - Sender: Interface that email providers implement (resend, ses, smtp, logsender)
//   - Transport: Adapts a Sender to dispatch.Transport, one message per recipient
//   - Composer: Converts markdown drafts with YAML frontmatter to HTML
//
// # Usage
//
// Wiring the Resend provider into a dispatcher:
//
//	sender := resend.New(resend.Config{
//		APIKey:      os.Getenv("RESEND_API_KEY"),
//		SenderEmail: "team@example.com",
//		SenderName:  "Team",
//	})
//
//	transport := mailer.NewTransport(sender, mailer.Config{PlainText: true})
//	d := dispatch.New(transport)
//
// # Drafts
//
// Drafts are markdown files with optional YAML frontmatter:
//
//	---
//	subject: Spring sale
//	fromName: Shop
//	fromEmail: news@shop.example
//	recipients: [ana@example.com]
//	---
//
//	# Up to 50% off
//
//	[!button|Shop now](https://shop.example/sale)
//
// Bodies use GitHub-flavoured markdown. Raw HTML passes through untouched and
// [!button|Label](URL) renders an inline-styled call-to-action link.
//
//	d, err := mailer.ParseDraft(content)
//	html, err := mailer.NewComposer().Compose(d)
//
// # Custom Providers
//
// Implement the Sender interface to add support for other email providers:
//
//	type MySender struct{}
//
//	func (s *MySender) Send(ctx context.Context, email *mailer.Email) error {
//		// Send email using your provider's API
//		return nil
//	}
//
// Return an error wrapping ErrNotConfigured or ErrUnavailable when the
// provider itself is unusable; Transport reports those as
// dispatch.ErrTransportUnavailable so the run aborts instead of failing every
// remaining recipient one by one.
package mailer
