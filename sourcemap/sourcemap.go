// Package sourcemap implements spec.md 4.11's V3 source map: maps
// generated positions in a codegen's output text back to original
// source locations, base64-VLQ encoded per the standard source-map
// spec.
package sourcemap

import "encoding/json"

// Segment is one mapping: a generated column plus, when it refers
// back to a source, the source file index, original line/column, and
// (optionally) a name index.
type Segment struct {
	GeneratedColumn int
	HasSource       bool
	SourceIndex     int
	OriginalLine    int
	OriginalColumn  int
	HasName         bool
	NameIndex       int
}

// Map is the builder for a V3 source map: one Line per generated
// output line, each holding its ordered Segments.
type Map struct {
	File           string
	Sources        []string
	SourcesContent []string
	Names          []string
	Lines          [][]Segment
}

// New creates an empty map for the named generated file.
func New(file string) *Map {
	return &Map{File: file}
}

// AddSource registers a source file (with its text, for
// sourcesContent) and returns its index.
func (m *Map) AddSource(path, content string) int {
	for i, s := range m.Sources {
		if s == path {
			return i
		}
	}
	m.Sources = append(m.Sources, path)
	m.SourcesContent = append(m.SourcesContent, content)
	return len(m.Sources) - 1
}

// AddName registers a symbol name and returns its index.
func (m *Map) AddName(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	m.Names = append(m.Names, name)
	return len(m.Names) - 1
}

// StartLine begins a new generated line (call once per output line,
// in order, before adding its segments).
func (m *Map) StartLine() {
	m.Lines = append(m.Lines, nil)
}

// AddSegment appends a mapping to the current (last-started) line.
func (m *Map) AddSegment(s Segment) {
	if len(m.Lines) == 0 {
		m.StartLine()
	}
	last := len(m.Lines) - 1
	m.Lines[last] = append(m.Lines[last], s)
}

// v3JSON is the on-the-wire shape of a V3 source map.
type v3JSON struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Encode renders m as the JSON text of a V3 source map.
func (m *Map) Encode() (string, error) {
	doc := v3JSON{
		Version:        3,
		File:           m.File,
		Sources:        orEmpty(m.Sources),
		SourcesContent: m.SourcesContent,
		Names:          orEmpty(m.Names),
		Mappings:       m.encodeMappings(),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// encodeMappings renders the "mappings" field: lines separated by
// `;`, segments within a line separated by `,`, every field after the
// first VLQ-encoded as a delta from the previous value of that same
// field (genColumn resets to 0 each line; the other four fields are
// deltas across the whole map, per the V3 spec).
func (m *Map) encodeMappings() string {
	var out []byte
	var prevSource, prevLine, prevCol, prevName int

	for li, segs := range m.Lines {
		if li > 0 {
			out = append(out, ';')
		}
		prevGenCol := 0
		for si, seg := range segs {
			if si > 0 {
				out = append(out, ',')
			}
			out = appendVLQ(out, seg.GeneratedColumn-prevGenCol)
			prevGenCol = seg.GeneratedColumn

			if seg.HasSource {
				out = appendVLQ(out, seg.SourceIndex-prevSource)
				prevSource = seg.SourceIndex
				out = appendVLQ(out, seg.OriginalLine-prevLine)
				prevLine = seg.OriginalLine
				out = appendVLQ(out, seg.OriginalColumn-prevCol)
				prevCol = seg.OriginalColumn
				if seg.HasName {
					out = appendVLQ(out, seg.NameIndex-prevName)
					prevName = seg.NameIndex
				}
			}
		}
	}
	return string(out)
}
