// Package vfile provides the virtual file used throughout globreader.
//
// A File is a mutable, in-memory record of one file: where it lives (Cwd and
// a path history), what it contains (Value), what was learned about it
// (Data, Messages) and which derived artifacts travel with it (Map, Min).
//
// # Paths
//
// The current path is the last entry of the history. Dirname, Basename, Stem
// and Extname are computed from it on every call, so renaming through any of
// the setters or Rename can never leave them stale:
//
//	f := vfile.New(vfile.Options{Path: "src/foo.md"})
//	_ = f.Rename(rename.Spec{Extname: rename.To(".html"), Dirname: rename.To("dist")})
//	f.Path()    // "dist/foo.html"
//	f.History() // ["src/foo.md", "dist/foo.html"]
//
// # Frontmatter
//
// Construction parses a leading YAML block into Data["matter"] exactly once.
// The block is removed from Value only when Options.StripMatter is set.
//
// # Persistence
//
// Write and Delete commit the file and its companions as one logical unit:
//
//	<path>                      Value
//	<path>.map                  Map, JSON encoded
//	<dir>/<stem>.min<ext>       Min.Code
//	<dir>/<stem>.min<ext>.map   Min.Map, JSON encoded
//
// The set of filesystem actions is computed by PlanWrite / PlanDelete from a
// Snapshot of the file. Write and Delete run the actions concurrently and
// wait for all of them; WriteSync and DeleteSync run them in order. Both
// produce the same end state. Failures are returned unchanged and nothing is
// rolled back, so a failed write may leave any subset of the artifacts on
// disk. Re-running the same operation is safe per artifact.
//
// Dry files never touch the filesystem: every persistence call returns nil
// immediately, and Bytes/Size report zero.
package vfile
