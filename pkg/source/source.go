package source

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "script.js", "<stdin>")
	Path    string // Full file path (empty for stdin/eval)
	Content string // The source code content, always UTF-8

	lines       []string // Cached split lines (lazy initialization)
	lineOffsets []int    // Byte offset of each line start (lazy initialization)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for inline input (tests, -e style use)
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<eval>",
		Path:    "",
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Path:    "",
		Content: content,
	}
}

// FromFile creates a SourceFile from a file path and its raw bytes.
// The bytes are decoded with Decode first.
func FromFile(filePath string, raw []byte) (*SourceFile, error) {
	content, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(filePath)
	return NewSourceFile(name, filePath, content), nil
}

// Decode converts raw script bytes into UTF-8 text. A UTF-8 or UTF-16
// byte order mark selects the encoding and is stripped; without one the
// bytes are taken as UTF-8.
func Decode(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}

// LineColumn maps a 0-based byte offset to a 1-based line and a 1-based
// column counted in runes.
func (sf *SourceFile) LineColumn(offset int) (line, column int) {
	if sf.lineOffsets == nil {
		sf.lineOffsets = []int{0}
		for i := 0; i < len(sf.Content); i++ {
			if sf.Content[i] == '\n' {
				sf.lineOffsets = append(sf.lineOffsets, i+1)
			}
		}
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}
	idx := sort.Search(len(sf.lineOffsets), func(i int) bool {
		return sf.lineOffsets[i] > offset
	}) - 1
	start := sf.lineOffsets[idx]
	return idx + 1, utf8.RuneCountInString(sf.Content[start:offset]) + 1
}
