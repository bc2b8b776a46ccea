package vfile

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/harrison/globreader/pkg/rename"
)

// ErrNoPath is returned when persisting a file that has no path.
var ErrNoPath = fmt.Errorf("vfile: path is required to persist a file: %w", fs.ErrInvalid)

// ActionKind identifies a filesystem action.
type ActionKind int

const (
	ActionMkdir ActionKind = iota
	ActionWrite
	ActionRemove
)

func (k ActionKind) String() string {
	switch k {
	case ActionMkdir:
		return "mkdir"
	case ActionWrite:
		return "write"
	case ActionRemove:
		return "remove"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is one filesystem step of a write or delete. Path is resolved
// against the snapshot's Cwd. Data is only set for ActionWrite.
type Action struct {
	Kind ActionKind
	Path string
	Data []byte
}

// Snapshot is the part of a file that decides which artifacts exist on disk.
type Snapshot struct {
	Cwd   string
	Path  string
	Value []byte
	Map   *SourceMap
	Min   *Min
}

// Snapshot captures the persistence-relevant state of f.
func (f *File) Snapshot() Snapshot {
	return Snapshot{
		Cwd:   f.Cwd,
		Path:  f.Path(),
		Value: f.Value,
		Map:   f.Map,
		Min:   f.Min,
	}
}

// MapPath returns the source map companion of p.
func MapPath(p string) string {
	return p + ".map"
}

// MinPath returns the minified companion of p: the stem gains a ".min"
// suffix and the extension is kept.
func MinPath(p string) string {
	dir := rename.Dirname(p)
	name := rename.Stem(p) + ".min" + rename.Extname(p)
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

// PlanWrite returns the actions that commit s to disk. An ActionMkdir for
// the parent directory comes first when the path has one; the remaining
// actions are independent of each other.
func PlanWrite(s Snapshot) ([]Action, error) {
	if s.Path == "" {
		return nil, ErrNoPath
	}

	var actions []Action
	if dir := rename.Dirname(s.Path); dir != "" && dir != "." {
		actions = append(actions, Action{Kind: ActionMkdir, Path: resolve(s.Cwd, dir)})
	}

	value := s.Value
	if value == nil {
		value = []byte{}
	}
	actions = append(actions, Action{Kind: ActionWrite, Path: resolve(s.Cwd, s.Path), Data: value})

	if s.Map != nil {
		data, err := json.Marshal(s.Map)
		if err != nil {
			return nil, fmt.Errorf("encode source map: %w", err)
		}
		actions = append(actions, Action{Kind: ActionWrite, Path: resolve(s.Cwd, MapPath(s.Path)), Data: data})
	}

	if s.Min != nil {
		minPath := MinPath(s.Path)
		if s.Min.Code != "" {
			actions = append(actions, Action{Kind: ActionWrite, Path: resolve(s.Cwd, minPath), Data: []byte(s.Min.Code)})
		}
		if s.Min.Map != nil {
			data, err := json.Marshal(s.Min.Map)
			if err != nil {
				return nil, fmt.Errorf("encode minified source map: %w", err)
			}
			actions = append(actions, Action{Kind: ActionWrite, Path: resolve(s.Cwd, MapPath(minPath)), Data: data})
		}
	}
	return actions, nil
}

// PlanDelete returns the removals that mirror PlanWrite. Directories are
// never removed.
func PlanDelete(s Snapshot) ([]Action, error) {
	if s.Path == "" {
		return nil, ErrNoPath
	}

	actions := []Action{{Kind: ActionRemove, Path: resolve(s.Cwd, s.Path)}}
	if s.Map != nil {
		actions = append(actions, Action{Kind: ActionRemove, Path: resolve(s.Cwd, MapPath(s.Path))})
	}
	if s.Min != nil {
		minPath := MinPath(s.Path)
		if s.Min.Code != "" {
			actions = append(actions, Action{Kind: ActionRemove, Path: resolve(s.Cwd, minPath)})
		}
		if s.Min.Map != nil {
			actions = append(actions, Action{Kind: ActionRemove, Path: resolve(s.Cwd, MapPath(minPath))})
		}
	}
	return actions, nil
}

func resolve(cwd, p string) string {
	native := filepath.FromSlash(p)
	if filepath.IsAbs(native) {
		return filepath.Clean(native)
	}
	return filepath.Join(cwd, native)
}
