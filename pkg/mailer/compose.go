package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed layouts/base.html
var layoutFS embed.FS

// Composer turns markdown drafts into HTML email bodies.
type Composer struct {
	md     goldmark.Markdown
	layout *template.Template
}

// ComposerOption configures a Composer.
type ComposerOption func(*composerOptions)

type composerOptions struct {
	buttonStyle string
	layout      *template.Template
	bare        bool
}

// WithButtonStyle overrides the inline style of [!button|...] links.
func WithButtonStyle(style string) ComposerOption {
	return func(o *composerOptions) { o.buttonStyle = style }
}

// WithLayout wraps bodies in a custom layout. The template receives
// Subject, Preheader and Content (already safe HTML).
func WithLayout(t *template.Template) ComposerOption {
	return func(o *composerOptions) { o.layout = t }
}

// WithoutLayout returns the rendered markdown as is.
func WithoutLayout() ComposerOption {
	return func(o *composerOptions) { o.bare = true }
}

// NewComposer creates a Composer with GitHub-flavoured markdown, raw HTML
// passthrough and the built-in email layout.
func NewComposer(opts ...ComposerOption) *Composer {
	o := &composerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	c := &Composer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, NewButtonExtension(o.buttonStyle)),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		layout: o.layout,
	}
	if c.layout == nil && !o.bare {
		c.layout = template.Must(template.ParseFS(layoutFS, "layouts/base.html"))
	}
	return c
}

// Markdown converts a markdown fragment to HTML.
func (c *Composer) Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.String(), nil
}

// Compose renders the draft body and wraps it in the layout.
func (c *Composer) Compose(d *Draft) (string, error) {
	content, err := c.Markdown(d.Body)
	if err != nil {
		return "", err
	}
	if c.layout == nil {
		return content, nil
	}

	var buf bytes.Buffer
	err = c.layout.Execute(&buf, map[string]any{
		"Subject":   d.Subject,
		"Preheader": d.Preheader,
		"Content":   template.HTML(content),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.String(), nil
}
