package edit

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between two versions of a file, for
// display in confirmation prompts and logs.
func UnifiedDiff(oldContent, newContent, filename string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: filename,
		ToFile:   filename,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// PostEditContextLines is the number of surrounding lines shown around an
// edited region.
const PostEditContextLines = 3

// EditLineRange returns the 1-based line range occupied by an edit in the
// updated content, given the byte offset where the replacement starts.
func EditLineRange(updated string, replaceStart int, replacement string) (startLine, endLine int) {
	startLine = 1
	for i := 0; i < replaceStart && i < len(updated); i++ {
		if updated[i] == '\n' {
			startLine++
		}
	}
	endLine = startLine + countLines(replacement) - 1
	if endLine < startLine {
		endLine = startLine
	}
	return startLine, endLine
}

// PostEditContext renders the edited region of the updated file with line
// numbers and a marker on changed lines, plus a few lines of context.
func PostEditContext(updated string, editStartLine, editEndLine int) string {
	if updated == "" {
		return ""
	}
	lines := strings.Split(updated, "\n")
	totalLines := len(lines)

	contextStart := editStartLine - PostEditContextLines
	if contextStart < 1 {
		contextStart = 1
	}
	contextEnd := editEndLine + PostEditContextLines
	if contextEnd > totalLines {
		contextEnd = totalLines
	}

	width := len(fmt.Sprintf("%d", totalLines))
	var sb strings.Builder
	for i := contextStart; i <= contextEnd; i++ {
		marker := " "
		if i >= editStartLine && i <= editEndLine {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s%*d|%s\n", marker, width, i, lines[i-1])
	}
	if contextEnd < totalLines {
		sb.WriteString("...\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
