// Package render turns markdown files into HTML pages for the build command.
package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/globreader/pkg/vfile"
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	markdown goldmark.Markdown
}

// NewRenderer creates a renderer with GitHub flavored markdown enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Page is a rendered document.
type Page struct {
	Title string
	Body  []byte
}

// Render converts markdown source to an HTML fragment and picks the page
// title from the first level-one heading.
func (r *Renderer) Render(source []byte) (*Page, error) {
	doc := r.markdown.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.markdown.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return &Page{Title: firstHeading(doc, source), Body: buf.Bytes()}, nil
}

// RenderFile renders the value of f as a full HTML document. The matter
// "title" wins over the first heading.
func (r *Renderer) RenderFile(f *vfile.File) ([]byte, error) {
	page, err := r.Render(f.Value)
	if err != nil {
		return nil, err
	}
	title := page.Title
	if t, ok := f.Matter().String("title"); ok && t != "" {
		title = t
	}
	if title == "" {
		title = f.Stem()
	}
	return Document(title, page.Body), nil
}

// Document wraps an HTML fragment in a minimal page.
func Document(title string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

// firstHeading returns the text of the first level-one heading.
func firstHeading(doc ast.Node, source []byte) string {
	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 1 {
			title = extractText(heading, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// extractText extracts plain text from an AST node
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		default:
			buf.WriteString(extractText(c, source))
		}
	}
	return strings.TrimSpace(buf.String())
}

var (
	preBlock   = regexp.MustCompile(`(?is)<pre[\s>].*?</pre>`)
	betweenTag = regexp.MustCompile(`>\s+<`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Minify collapses insignificant whitespace in an HTML document. Content of
// <pre> blocks is kept verbatim.
func Minify(doc []byte) string {
	var kept []string
	src := preBlock.ReplaceAllStringFunc(string(doc), func(block string) string {
		kept = append(kept, block)
		return fmt.Sprintf("<\x00%d>", len(kept)-1)
	})

	src = betweenTag.ReplaceAllString(src, "><")
	src = spaces.ReplaceAllString(src, " ")

	for i, block := range kept {
		src = strings.Replace(src, fmt.Sprintf("<\x00%d>", i), block, 1)
	}
	return strings.TrimSpace(src)
}

// SourceMap returns an identity source map from the generated file back to
// its markdown source.
func SourceMap(generated, source string, content []byte) *vfile.SourceMap {
	return &vfile.SourceMap{
		Version:        3,
		File:           generated,
		Sources:        []string{source},
		SourcesContent: []string{string(content)},
		Names:          []string{},
		Mappings:       "",
	}
}
