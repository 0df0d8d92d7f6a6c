// Package edit applies model-proposed old/new string edits to documents. It
// orchestrates document acquisition, end-of-line normalization, the match
// cascade, and converts match results into offset-based edit operations plus
// a patch summary. Failures are typed errors carrying a telemetry kind.
package edit

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"go.lsp.dev/uri"

	"github.com/mkravets/anchoredit/internal/document"
	"github.com/mkravets/anchoredit/internal/match"
)

// Op is a single edit operation: replace the half-open byte range
// [Start, End) with NewText.
type Op struct {
	Start   int
	End     int
	NewText string
}

// PatchSummary is a simplified unified-diff header: line counts only, no
// hunk content. It exists to report "N lines changed", not to be a diff.
type PatchSummary struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
}

// Result describes a computed edit. The caller commits Edits (or
// UpdatedFile wholesale) transactionally; the applier itself writes nothing.
type Result struct {
	Patch       PatchSummary
	UpdatedFile string
	Edits       []Op

	// Strategy records which match strategy located the edit.
	Strategy match.Kind
	// Similarity is the achieved ratio when Strategy is match.Similarity.
	Similarity float64
	// Warning carries the verify-the-result suggestion for similarity
	// matches.
	Warning string
}

// Applier binds a document provider to a matcher.
type Applier struct {
	provider document.Provider
	matcher  *match.Matcher
}

// NewApplier creates an Applier. A nil matcher uses the default threshold.
func NewApplier(provider document.Provider, matcher *match.Matcher) *Applier {
	if matcher == nil {
		matcher = match.NewMatcher(match.DefaultThreshold)
	}
	return &Applier{provider: provider, matcher: matcher}
}

// Apply computes the edit replacing oldText with newText in the document
// behind u. An empty oldText creates the file; an empty newText deletes the
// matched region. Failures are *Error values classified by Kind.
func (a *Applier) Apply(ctx context.Context, u uri.URI, oldText, newText string) (*Result, error) {
	doc, err := a.provider.Open(ctx, u)
	if err != nil {
		// A missing file plus an empty search string is file creation, not
		// an error. The race between "does not exist" and "exists but
		// empty" is absorbed here.
		if errors.Is(err, fs.ErrNotExist) && oldText == "" {
			return creationResult(document.NormalizeEOL(newText, "\n"))
		}
		return nil, wrapUnknown(err)
	}

	text := doc.Text()
	eol := doc.EOL()
	oldText = document.NormalizeEOL(oldText, eol)
	newText = document.NormalizeEOL(newText, eol)

	if oldText == "" {
		if text != "" {
			return nil, contentFormatError(string(u))
		}
		return creationResult(newText)
	}

	res := a.matcher.FindAndReplaceOne(text, oldText, newText, eol)
	if newText == "" && res.Kind == match.None {
		// Deletion fallback: tolerate a model that omitted the trailing
		// newline in its search string.
		res = a.matcher.FindAndReplaceOne(text, oldText+eol, newText, eol)
	}

	switch res.Kind {
	case match.None:
		return nil, noMatchError(res.Suggestion)
	case match.Multiple:
		return nil, multipleMatchesError(len(res.Spans), res.Strategy.String())
	}

	if res.Text == text {
		return nil, noChangeError()
	}

	replacement := res.Text[res.Span.Start : res.Span.End+len(res.Text)-len(text)]
	startLine := document.OffsetToPosition(text, res.Span.Start).Line + 1

	out := &Result{
		Patch: PatchSummary{
			OldStart: startLine,
			OldLines: countLines(text[res.Span.Start:res.Span.End]),
			NewStart: startLine,
			NewLines: countLines(replacement),
		},
		UpdatedFile: res.Text,
		Edits:       []Op{{Start: res.Span.Start, End: res.Span.End, NewText: replacement}},
		Strategy:    res.Kind,
		Similarity:  res.Similarity,
	}
	if res.Kind == match.Similarity {
		out.Warning = res.Suggestion
	}
	return out, nil
}

func creationResult(content string) (*Result, error) {
	if content == "" {
		return nil, noChangeError()
	}
	return &Result{
		Patch: PatchSummary{
			OldStart: 1,
			OldLines: 0,
			NewStart: 1,
			NewLines: countLines(content),
		},
		UpdatedFile: content,
		Edits:       []Op{{Start: 0, End: 0, NewText: content}},
		Strategy:    match.Exact,
	}, nil
}

// countLines counts the lines in s; a final line without a terminator still
// counts.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
