package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/globreader/pkg/vfile"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	page, err := r.Render([]byte("# Hello *world*\n\nSome ~~old~~ text.\n"))
	require.NoError(t, err)

	assert.Equal(t, "Hello world", page.Title)
	body := string(page.Body)
	assert.Contains(t, body, "<h1>Hello <em>world</em></h1>")
	assert.Contains(t, body, "<del>old</del>", "strikethrough comes from GFM")
}

func TestRenderWithoutHeading(t *testing.T) {
	page, err := NewRenderer().Render([]byte("## Second level\n\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, "", page.Title)
}

func TestRenderFileTitlePrecedence(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"matter title", "---\ntitle: From Matter\n---\n# From Heading\n", "<title>From Matter</title>"},
		{"heading title", "# From Heading\n", "<title>From Heading</title>"},
		{"stem fallback", "plain paragraph\n", "<title>about</title>"},
		{"escaped", "# Fish & Chips\n", "<title>Fish &amp; Chips</title>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := vfile.New(vfile.Options{Path: "pages/about.md", Value: []byte(tt.source), StripMatter: true})
			doc, err := r.RenderFile(f)
			require.NoError(t, err)
			assert.Contains(t, string(doc), tt.want)
			assert.True(t, strings.HasPrefix(string(doc), "<!doctype html>"))
		})
	}
}

func TestMinify(t *testing.T) {
	doc := "<html>\n  <body>\n    <p>a   b</p>\n<pre>keep\n   this</pre>\n  </body>\n</html>\n"
	assert.Equal(t, "<html><body><p>a b</p><pre>keep\n   this</pre></body></html>", Minify([]byte(doc)))
}

func TestSourceMap(t *testing.T) {
	sm := SourceMap("about.html", "pages/about.md", []byte("# About"))
	assert.Equal(t, 3, sm.Version)
	assert.Equal(t, "about.html", sm.File)
	assert.Equal(t, []string{"pages/about.md"}, sm.Sources)
	assert.Equal(t, []string{"# About"}, sm.SourcesContent)
}
