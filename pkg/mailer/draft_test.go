package mailer

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraft(t *testing.T) {
	t.Parallel()

	t.Run("frontmatter and body", func(t *testing.T) {
		t.Parallel()

		d, err := ParseDraft([]byte(`---
subject: "  Spring sale "
fromName: Shop
fromEmail: news@shop.example
recipients:
  - ana@example.com
  - bob@example.com
recipientsFile: customers.txt
---
# Hello
`))
		require.NoError(t, err)
		assert.Equal(t, "Spring sale", d.Subject)
		assert.Equal(t, "Shop", d.FromName)
		assert.Equal(t, "news@shop.example", d.FromEmail)
		assert.Equal(t, []string{"ana@example.com", "bob@example.com"}, d.Recipients)
		assert.Equal(t, "customers.txt", d.RecipientsFile)
		assert.Equal(t, "# Hello\n", d.Body)
	})

	t.Run("crlf after closing delimiter", func(t *testing.T) {
		t.Parallel()

		d, err := ParseDraft([]byte("---\r\nsubject: Hi\r\n---\r\nBody"))
		require.NoError(t, err)
		assert.Equal(t, "Hi", d.Subject)
		assert.Equal(t, "Body", d.Body)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		t.Parallel()

		d, err := ParseDraft([]byte("Just text."))
		require.NoError(t, err)
		assert.Empty(t, d.Subject)
		assert.Equal(t, "Just text.", d.Body)
	})

	t.Run("empty frontmatter", func(t *testing.T) {
		t.Parallel()

		d, err := ParseDraft([]byte("---\n---\nBody"))
		require.NoError(t, err)
		assert.Empty(t, d.Recipients)
		assert.Equal(t, "Body", d.Body)
	})

	t.Run("unclosed frontmatter", func(t *testing.T) {
		t.Parallel()

		_, err := ParseDraft([]byte("---\nsubject: Hi\nBody"))
		require.ErrorIs(t, err, ErrInvalidFrontmatter)
	})

	t.Run("only the opening delimiter", func(t *testing.T) {
		t.Parallel()

		_, err := ParseDraft([]byte("---\n"))
		require.ErrorIs(t, err, ErrInvalidFrontmatter)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := ParseDraft([]byte("---\nrecipients: [a, b\n---\nBody"))
		require.ErrorIs(t, err, ErrInvalidFrontmatter)
	})
}

func TestComposer_Markdown(t *testing.T) {
	t.Parallel()

	c := NewComposer(WithoutLayout())

	t.Run("gfm", func(t *testing.T) {
		t.Parallel()

		out, err := c.Markdown("~~old~~ **new**\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
		require.NoError(t, err)
		assert.Contains(t, out, "<del>old</del>")
		assert.Contains(t, out, "<strong>new</strong>")
		assert.Contains(t, out, "<table>")
	})

	t.Run("raw html passes through", func(t *testing.T) {
		t.Parallel()

		out, err := c.Markdown(`<div align="center">hi</div>`)
		require.NoError(t, err)
		assert.Contains(t, out, `<div align="center">hi</div>`)
	})

	t.Run("button", func(t *testing.T) {
		t.Parallel()

		out, err := c.Markdown("[!button|Shop now](https://shop.example/sale)")
		require.NoError(t, err)
		assert.Contains(t, out, `<a href="https://shop.example/sale" style="`+DefaultButtonStyle+`">Shop now</a>`)
	})

	t.Run("button label is escaped", func(t *testing.T) {
		t.Parallel()

		out, err := c.Markdown("[!button|<b>Go</b>](https://x.io)")
		require.NoError(t, err)
		assert.Contains(t, out, "&lt;b&gt;Go&lt;/b&gt;")
	})

	t.Run("custom button style", func(t *testing.T) {
		t.Parallel()

		out, err := NewComposer(WithoutLayout(), WithButtonStyle("color:red")).Markdown("[!button|Go](https://x.io)")
		require.NoError(t, err)
		assert.Contains(t, out, `style="color:red"`)
	})

	t.Run("ordinary links are untouched", func(t *testing.T) {
		t.Parallel()

		out, err := c.Markdown("[site](https://x.io)")
		require.NoError(t, err)
		assert.Contains(t, out, `<a href="https://x.io">site</a>`)
	})
}

func TestComposer_Compose(t *testing.T) {
	t.Parallel()

	t.Run("default layout", func(t *testing.T) {
		t.Parallel()

		out, err := NewComposer().Compose(&Draft{
			Subject:   "Sale & more",
			Preheader: "Half price",
			Body:      "Hello **there**",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
		assert.Contains(t, out, "<title>Sale &amp; more</title>")
		assert.Contains(t, out, "Half price")
		assert.Contains(t, out, "<strong>there</strong>")
	})

	t.Run("custom layout", func(t *testing.T) {
		t.Parallel()

		layout := template.Must(template.New("l").Parse(`<main>{{.Content}}</main>`))
		out, err := NewComposer(WithLayout(layout)).Compose(&Draft{Body: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "<main><p>hi</p>\n</main>", out)
	})

	t.Run("bare", func(t *testing.T) {
		t.Parallel()

		out, err := NewComposer(WithoutLayout()).Compose(&Draft{Body: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>\n", out)
	})
}
