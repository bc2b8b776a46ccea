package rename

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponents(t *testing.T) {
	tests := []struct {
		path                           string
		dirname, basename, stem, ext string
	}{
		{"", "", "", "", ""},
		{"foo.md", ".", "foo.md", "foo", ".md"},
		{"src/foo.md", "src", "foo.md", "foo", ".md"},
		{"src/foo.min.js", "src", "foo.min.js", "foo.min", ".js"},
		{"a/.env", "a", ".env", ".env", ""},
		{"a/Makefile", "a", "Makefile", "Makefile", ""},
		{"a/trailing.", "a", "trailing.", "trailing", "."},
		{"/abs/x.go", "/abs", "x.go", "x", ".go"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.dirname, Dirname(tt.path))
			assert.Equal(t, tt.basename, Basename(tt.path))
			assert.Equal(t, tt.stem, Stem(tt.path))
			assert.Equal(t, tt.ext, Extname(tt.path))
		})
	}
}

func TestSpecApply(t *testing.T) {
	tests := []struct {
		name string
		path string
		spec Spec
		want string
	}{
		{"empty rename", "src/foo.md", Spec{}, "src/foo.md"},
		{"extname and dirname", "src/foo.md", Spec{Extname: To(".html"), Dirname: To("dist")}, "dist/foo.html"},
		{"stem", "src/foo.md", Spec{Stem: To("bar")}, "src/bar.md"},
		{"stem affix", "src/foo.md", Spec{Stem: Affix("_", ".min")}, "src/_foo.min.md"},
		{"dirname prefix", "src/foo.md", Spec{Dirname: Affix("build/", "")}, "build/src/foo.md"},
		{"remove extname", "src/foo.md", Spec{Extname: To("")}, "src/foo"},
		{"basename", "src/foo.md", Spec{Basename: To("index.html")}, "src/index.html"},
		{"whole path", "src/foo.md", Spec{Path: To("other/x.txt")}, "other/x.txt"},
		{"basename on empty path", "", Spec{Basename: To("new.md")}, "new.md"},
		{"stem on empty path", "", Spec{Stem: To("new")}, "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Apply(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecApplyErrors(t *testing.T) {
	_, err := Spec{Extname: To(".html")}.Apply("")
	assert.ErrorIs(t, err, ErrNeedsPath)

	_, err = Spec{Dirname: To("dist")}.Apply("")
	assert.ErrorIs(t, err, ErrNeedsPath)

	_, err = Spec{Stem: To("a/b")}.Apply("src/foo.md")
	assert.ErrorIs(t, err, ErrPathPart)
	assert.True(t, errors.Is(err, fs.ErrInvalid))

	_, err = Spec{Basename: To("")}.Apply("src/foo.md")
	assert.ErrorIs(t, err, ErrEmptyPart)

	_, err = Spec{Extname: To("html")}.Apply("src/foo.md")
	assert.ErrorIs(t, err, ErrExtname)

	_, err = Spec{Extname: To(".tar.gz")}.Apply("src/foo.md")
	assert.ErrorIs(t, err, ErrExtname)
}

func TestParse(t *testing.T) {
	got, err := Apply("src/foo.md", Parse(".html"))
	require.NoError(t, err)
	assert.Equal(t, "src/foo.html", got)

	got, err = Apply("src/foo.md", Parse("dist/bar.md"))
	require.NoError(t, err)
	assert.Equal(t, "dist/bar.md", got)
}

func TestChainAndFunc(t *testing.T) {
	upper := Func(func(p string) (string, error) {
		return strings.ToUpper(p), nil
	})

	got, err := Apply("src/foo.md", Chain{Spec{Dirname: To("out")}, Parse(".txt"), upper})
	require.NoError(t, err)
	assert.Equal(t, "OUT/FOO.TXT", got)

	got, err = Apply("src/foo.md", nil)
	require.NoError(t, err)
	assert.Equal(t, "src/foo.md", got)

	failing := Func(func(string) (string, error) { return "", errors.New("nope") })
	_, err = Apply("src/foo.md", Chain{failing, upper})
	assert.EqualError(t, err, "nope")
}
