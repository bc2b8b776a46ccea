package check

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fakeFile is a minimal Subject keyed on a slash path.
type fakeFile struct {
	path  string
	extra map[string]any
}

func (f fakeFile) Path() string { return f.path }

func (f fakeFile) Field(name string) (any, bool) {
	if f.path == "" {
		if name == "missing" {
			return true, true
		}
		v, ok := f.extra[name]
		return v, ok
	}
	base := path.Base(f.path)
	ext := path.Ext(base)
	switch name {
	case "path":
		return f.path, true
	case "dirname":
		return path.Dir(f.path), true
	case "basename":
		return base, true
	case "extname":
		return ext, true
	case "stem":
		return strings.TrimSuffix(base, ext), true
	case "missing":
		return false, true
	}
	v, ok := f.extra[name]
	return v, ok
}

func TestStringChecks(t *testing.T) {
	file := fakeFile{path: "path/to/foo.md"}

	assert.True(t, Test(file, nil))
	assert.True(t, Test(file, Parse(".md")))
	assert.True(t, Test(file, Parse("**/*.md")))
	assert.True(t, Test(file, Parse("**/*.{js,md}")))
	assert.False(t, Test(file, Parse("**/*.js")))
	assert.False(t, Test(file, Parse("**/*.{js,mdx}")))
	assert.False(t, Test(file, Parse("*.md")))
	assert.False(t, Test(file, Parse(".mdx")))
}

func TestParseKinds(t *testing.T) {
	assert.Equal(t, Ext(".md"), Parse(".md"))
	assert.Equal(t, Glob("*.md"), Parse("*.md"))
	assert.Equal(t, Glob("./src/*.md"), Parse("./src/*.md"))
	assert.Equal(t, Not{Check: Glob("*.md")}, Parse("!*.md"))
	assert.Equal(t, Not{Check: Ext(".md")}, Parse("!.md"))
	assert.Equal(t, Glob("!"), Parse("!"))
}

func TestNegatedChecks(t *testing.T) {
	md := fakeFile{path: "docs/a.md"}
	txt := fakeFile{path: "docs/a.txt"}

	assert.False(t, Test(md, Parse("!**/*.md")))
	assert.True(t, Test(txt, Parse("!**/*.md")))
	assert.True(t, Test(txt, Parse("!.md")))
	assert.False(t, Test(md, Parse("!!.txt")))

	only, err := From([]any{"!.md", "docs/a.md"})
	require.NoError(t, err)
	assert.True(t, Test(md, only))
	assert.True(t, Test(txt, only))
	assert.False(t, Test(fakeFile{path: "a.md"}, only))
}

func TestGlobCleansDotSlash(t *testing.T) {
	file := fakeFile{path: "./src/foo.md"}

	assert.True(t, Test(file, Glob("src/*.md")))
	assert.True(t, Test(file, Glob("./src/*.md")))
	assert.False(t, Test(fakeFile{}, Glob("**")))
}

func TestFieldChecks(t *testing.T) {
	file := fakeFile{path: "path/to/foo.md"}

	assert.True(t, Test(file, Fields{"stem": Equals("foo")}))
	assert.False(t, Test(file, Fields{"stem": Equals("bar")}))

	assert.False(t, Test(file, Fields{"missing": Truthy(true)}))
	assert.True(t, Test(file, Fields{"missing": Truthy(false)}))

	assert.True(t, Test(file, Fields{"stem": Affix{Prefix: "f"}}))
	assert.True(t, Test(file, Fields{"stem": Affix{Suffix: "oo"}}))
	assert.False(t, Test(file, Fields{"stem": Affix{Prefix: "o"}}))

	assert.True(t, Test(file, Fields{"stem": Equals("foo"), "extname": Equals(".md")}))
	assert.False(t, Test(file, Fields{"stem": Equals("foo"), "extname": Equals(".js")}))
}

func TestFieldChecksWithoutPath(t *testing.T) {
	file := fakeFile{}

	assert.True(t, Test(file, Fields{"missing": Truthy(true)}))
	assert.False(t, Test(file, Fields{"stem": Equals("foo")}))
	assert.False(t, Test(file, Ext(".md")))
}

func TestCombinators(t *testing.T) {
	file := fakeFile{path: "src/app.ts"}

	assert.True(t, Test(file, Any{Ext(".js"), Ext(".ts")}))
	assert.False(t, Test(file, Any{Ext(".js"), Ext(".css")}))
	assert.False(t, Test(file, Any{}))

	assert.True(t, Test(file, All{Ext(".ts"), Glob("src/**")}))
	assert.False(t, Test(file, All{Ext(".ts"), Glob("lib/**")}))

	assert.True(t, Test(file, Func(func(s Subject) bool {
		return strings.HasPrefix(s.Path(), "src/")
	})))
}

func TestFromYAML(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want bool
	}{
		{"extension", `.md`, true},
		{"glob", `"**/*.md"`, true},
		{"list", `[".js", ".md"]`, true},
		{"equality", `{stem: foo}`, true},
		{"affix", `{stem: {prefix: f, suffix: o}}`, true},
		{"boolean", `{missing: true}`, false},
		{"mismatch", `{basename: bar.md}`, false},
	}

	file := fakeFile{path: "docs/foo.md"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw any
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &raw))

			c, err := From(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Test(file, c))
		})
	}
}

func TestFromErrors(t *testing.T) {
	_, err := From(42)
	assert.Error(t, err)

	_, err = From(map[string]any{"stem": map[string]any{"middle": "x"}})
	assert.ErrorContains(t, err, `field "stem"`)

	_, err = From([]any{".md", 3.5})
	assert.ErrorContains(t, err, "check 1")

	c, err := From(nil)
	assert.NoError(t, err)
	assert.Nil(t, c)
}
