package vfile

// SourceMap is a version 3 source map as produced by bundlers and
// minifiers. It is written to disk as JSON.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Min is the minified rendition of a file and its source map.
type Min struct {
	Code string
	Map  *SourceMap
}

func (m *SourceMap) clone() *SourceMap {
	if m == nil {
		return nil
	}
	c := *m
	c.Sources = append([]string(nil), m.Sources...)
	c.SourcesContent = append([]string(nil), m.SourcesContent...)
	c.Names = append([]string(nil), m.Names...)
	return &c
}

func (m *Min) clone() *Min {
	if m == nil {
		return nil
	}
	return &Min{Code: m.Code, Map: m.Map.clone()}
}
