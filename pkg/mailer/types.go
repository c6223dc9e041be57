package mailer

import (
	"maps"
	"slices"
	"strings"
)

// Tags label a message for provider-side analytics. Resend and SES receive
// them as name/value pairs; SMTP and the log sender ignore them.
type Tags map[string]string

// Tag is one name/value pair of Tags.
type Tag struct {
	Name  string
	Value string
}

// SimpleTags marks each name with the value "true".
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = "true"
	}
	return t
}

// Pairs returns the tags ordered by name, so provider requests are stable.
func (t Tags) Pairs() []Tag {
	out := make([]Tag, 0, len(t))
	for _, name := range slices.Sorted(maps.Keys(t)) {
		out = append(out, Tag{Name: name, Value: t[name]})
	}
	return out
}

// Recipient formats an address with an optional display name. Names that
// contain address punctuation are quoted.
func Recipient(name, email string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return email
	}
	if strings.ContainsAny(name, `,;:<>@"()[]\`) {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
		name = `"` + r.Replace(name) + `"`
	}
	return name + " <" + email + ">"
}

// Email is one provider-ready message.
type Email struct {
	Headers map[string]string
	Tags    Tags
	Subject string
	HTML    string
	Text    string // plain-text alternative; empty sends HTML only
	From    string // empty uses the provider's default sender
	ReplyTo string
	To      []string
}

// Validate reports the first missing mandatory field.
func (e *Email) Validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "":
		return ErrNoContent
	}
	return nil
}
