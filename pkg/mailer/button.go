package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultButtonStyle is the inline style of call-to-action links.
// Mail clients ignore stylesheets, so the style travels with the element.
const DefaultButtonStyle = "display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;" +
	"text-decoration:none;border-radius:6px;font-weight:600"

// KindButton is the node kind of a call-to-action link.
var KindButton = ast.NewNodeKind("Button")

var buttonPrefix = []byte("[!button|")

// buttonNode is a call-to-action link written as [!button|Label](URL).
type buttonNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

func (n *buttonNode) Kind() ast.NodeKind { return KindButton }

func (n *buttonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":   string(n.URL),
		"Label": string(n.Label),
	}, nil)
}

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonPrefix) {
		return nil
	}

	label, after, ok := bytes.Cut(line[len(buttonPrefix):], []byte("]("))
	if !ok || len(label) == 0 {
		return nil
	}
	url, _, ok := bytes.Cut(after, []byte(")"))
	if !ok || len(url) == 0 {
		return nil
	}

	block.Advance(len(buttonPrefix) + len(label) + 2 + len(url) + 1)
	return &buttonNode{URL: bytes.Clone(url), Label: bytes.Clone(label)}
}

type buttonRenderer struct {
	style string
}

func (r buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, r.render)
}

func (r buttonRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*buttonNode)

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.URL, false)))
	_, _ = w.WriteString(`" style="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.style)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

type buttonExtension struct {
	style string
}

// NewButtonExtension returns a goldmark extension that renders
// [!button|Label](URL) as a styled link.
func NewButtonExtension(style string) goldmark.Extender {
	if style == "" {
		style = DefaultButtonStyle
	}
	return buttonExtension{style: style}
}

func (e buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(buttonParser{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(buttonRenderer{style: e.style}, 50),
	))
}
