package mailer

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Draft is a message authored as markdown with YAML frontmatter:
//
//	---
//	subject: Spring sale
//	fromName: Shop
//	fromEmail: news@shop.example
//	recipients:
//	  - ana@example.com
//	recipientsFile: customers.txt
//	---
//	# Hello!
//
//	[!button|Shop now](https://shop.example/sale)
type Draft struct {
	Subject        string   `yaml:"subject"`
	FromName       string   `yaml:"fromName"`
	FromEmail      string   `yaml:"fromEmail"`
	Preheader      string   `yaml:"preheader"`
	Recipients     []string `yaml:"recipients"`
	RecipientsFile string   `yaml:"recipientsFile"`
	Body           string   `yaml:"-"`
}

// ParseDraft reads frontmatter and body. A draft without frontmatter is
// accepted; its fields stay empty and the whole content becomes the body.
func ParseDraft(content []byte) (*Draft, error) {
	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	d := &Draft{Body: string(body)}
	if len(bytes.TrimSpace(meta)) > 0 {
		if err := yaml.Unmarshal(meta, d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	d.Subject = strings.TrimSpace(d.Subject)
	d.FromName = strings.TrimSpace(d.FromName)
	d.FromEmail = strings.TrimSpace(d.FromEmail)
	return d, nil
}
