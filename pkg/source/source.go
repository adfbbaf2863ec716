package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SourceFile represents a script with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "script.js", "<stdin>", "<eval>")
	Path    string // Full file path (empty for eval/stdin input)
	Content string // The decoded source text
	lines   []string
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for eval input
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<eval>",
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Content: content,
	}
}

// FromFile creates a SourceFile from a file path and already decoded content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// FromBytes decodes raw bytes into a SourceFile. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is stripped; input without a BOM is UTF-8.
func FromBytes(filePath string, data []byte) (*SourceFile, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "decode %s", displayName(filePath))
	}
	if filePath == "" {
		return NewEvalSource(string(decoded)), nil
	}
	return FromFile(filePath, string(decoded)), nil
}

// ReadFile loads and decodes a script from disk.
func ReadFile(filePath string) (*SourceFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read %s", filePath)
	}
	return FromBytes(filePath, data)
}

// ReadAll loads and decodes a script from an arbitrary reader (e.g. stdin).
func ReadAll(r io.Reader) (*SourceFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read <stdin>")
	}
	sf, err := FromBytes("", data)
	if err != nil {
		return nil, err
	}
	return NewStdinSource(sf.Content), nil
}

// Reader returns a fresh rune reader over the content.
func (sf *SourceFile) Reader() io.RuneReader {
	return strings.NewReader(sf.Content)
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

func displayName(filePath string) string {
	if filePath == "" {
		return "<eval>"
	}
	return filePath
}
