// Package document provides the host-document collaborators the edit engine
// depends on: opening a document by URI with its end-of-line convention,
// offset/position conversion, symlink resolution, and atomic commits.
package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.lsp.dev/uri"
)

// UntitledScheme marks in-memory documents that have never been saved.
const UntitledScheme = "untitled"

// Document is a snapshot of a document's content.
type Document interface {
	// Text returns the full document content.
	Text() string
	// EOL returns the document's line terminator, "\n" or "\r\n".
	EOL() string
}

// Provider opens documents by URI. Open must surface fs.ErrNotExist (via
// errors.Is) for missing files so callers can treat creation specially.
type Provider interface {
	Open(ctx context.Context, u uri.URI) (Document, error)
}

type memDocument struct {
	text string
	eol  string
}

func (d *memDocument) Text() string { return d.text }
func (d *memDocument) EOL() string  { return d.eol }

// NewDocument creates an in-memory Document with the given content and EOL.
func NewDocument(text, eol string) Document {
	if eol == "" {
		eol = "\n"
	}
	return &memDocument{text: text, eol: eol}
}

// FileProvider opens documents from the OS filesystem. Untitled URIs open as
// empty documents with LF line endings.
type FileProvider struct{}

// Open reads the file behind u and sniffs its EOL convention.
func (FileProvider) Open(ctx context.Context, u uri.URI) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsUntitled(u) {
		return NewDocument("", "\n"), nil
	}
	data, err := os.ReadFile(u.Filename())
	if err != nil {
		return nil, err
	}
	text := string(data)
	return NewDocument(text, DetectEOL(text)), nil
}

// IsUntitled reports whether u uses the untitled scheme.
func IsUntitled(u uri.URI) bool {
	return strings.HasPrefix(string(u), UntitledScheme+":")
}

// DetectEOL returns "\r\n" if the text contains any CRLF terminator, else
// "\n". Mixed-EOL files are treated as CRLF; the matcher tolerates strays.
func DetectEOL(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// NormalizeEOL rewrites every line terminator in s to eol. Models routinely
// emit LF even when the target file uses CRLF.
func NormalizeEOL(s, eol string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if eol == "\r\n" {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// Position is a zero-based line/column location in a document.
type Position struct {
	Line   int
	Column int
}

// OffsetToPosition converts a byte offset into a Position. Offsets past the
// end of text clamp to the final position.
func OffsetToPosition(text string, offset int) Position {
	if offset > len(text) {
		offset = len(text)
	}
	line, col := 0, 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// PositionToOffset converts a Position back into a byte offset. Out-of-range
// positions clamp to the nearest valid offset.
func PositionToOffset(text string, p Position) int {
	offset := 0
	line := 0
	for line < p.Line && offset < len(text) {
		if text[offset] == '\n' {
			line++
		}
		offset++
	}
	col := 0
	for col < p.Column && offset < len(text) && text[offset] != '\n' {
		offset++
		col++
	}
	return offset
}

// LineOffsets returns the byte offset of the start of each line in text.
func LineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// WriteFileAtomic writes content to path via temp file + rename, creating
// parent directories for new files and preserving the mode of existing ones.
func WriteFileAtomic(path, content string, isNewFile bool) error {
	if isNewFile {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".anchoredit-*.tmp")
	if err != nil {
		return err
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tempPath, info.Mode())
	} else {
		_ = os.Chmod(tempPath, 0644)
	}

	return os.Rename(tempPath, path)
}
