// Package match implements the similarity-cascade matcher: given a document
// and a search string a model believes exists in it, find the unique region
// to replace. Four strategies run in strict priority order (exact →
// whitespace-flexible → fuzzy regex → similarity threshold); the first one
// that returns anything other than None wins. Weaker strategies are more
// expensive and more error-prone, so they never override a precise match.
package match

import (
	"regexp"
	"strings"
)

// Kind discriminates the variants of a Result.
type Kind int

const (
	// None means no strategy found a match.
	None Kind = iota
	// Exact means exactly one literal substring occurrence.
	Exact
	// Whitespace means exactly one match after trimming each line.
	Whitespace
	// Fuzzy means exactly one match via the trailing-whitespace/CRLF
	// tolerant regex.
	Fuzzy
	// Similarity means exactly one match via the sliding-window
	// average-Levenshtein scan.
	Similarity
	// Multiple means a strategy found two or more candidates; the caller
	// must treat this as ambiguous and abort.
	Multiple
)

// String returns the strategy name used in logs and error messages.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Exact:
		return "exact"
	case Whitespace:
		return "whitespace"
	case Fuzzy:
		return "fuzzy"
	case Similarity:
		return "similarity"
	case Multiple:
		return "multiple"
	}
	return "unknown"
}

// Span is a half-open [Start, End) byte-offset range into the document.
type Span struct {
	Start int
	End   int
}

// Result is the outcome of a match attempt. Exactly one success variant
// (Exact, Whitespace, Fuzzy, Similarity) carries the spliced Text and the
// matched Span. Multiple carries all candidate Spans plus the Strategy that
// produced them. None and Multiple are both failures for the caller.
type Result struct {
	Kind Kind

	// Text is the full document after splicing in the replacement.
	// Set only for success variants.
	Text string
	// Span is the replaced range in the original document.
	Span Span
	// Similarity is the achieved average ratio, set for Similarity matches.
	Similarity float64
	// Suggestion is human-readable guidance, set for None and Similarity.
	Suggestion string

	// Strategy is the strategy that found the candidates, set for Multiple.
	Strategy Kind
	// Spans holds all candidate ranges, set for Multiple.
	Spans []Span
}

// Found reports whether the result is a usable single match.
func (r Result) Found() bool {
	return r.Kind != None && r.Kind != Multiple
}

// Guards on the similarity strategy. Levenshtein is O(n*m) per window, so
// the scan is skipped entirely for large inputs. These are hard cutoffs.
const (
	// DefaultThreshold is the minimum average per-line similarity a window
	// must exceed to qualify.
	DefaultThreshold = 0.95
	// MaxSimilaritySearchChars bounds the search string length.
	MaxSimilaritySearchChars = 1000
	// MaxSimilaritySearchLines bounds the search string line count.
	MaxSimilaritySearchLines = 20
	// MaxSimilarityDocLines bounds the document line count.
	MaxSimilarityDocLines = 1000
)

const noMatchSuggestion = "no match found; re-read the file and check for formatting differences, or use a shorter, more distinctive search string"

const similaritySuggestion = "matched by similarity only; verify the result, the replaced region may not be what was intended"

// Matcher runs the strategy cascade with a configurable similarity
// threshold.
type Matcher struct {
	Threshold float64
}

// NewMatcher creates a Matcher. A threshold <= 0 falls back to
// DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{Threshold: threshold}
}

// FindAndReplaceOne finds the unique location of oldStr in text and splices
// in newStr, using the default similarity threshold. Pure function, no I/O.
// eol is the document's line terminator ("\n" or "\r\n"); callers must
// normalize oldStr and newStr to it before matching.
func FindAndReplaceOne(text, oldStr, newStr, eol string) Result {
	return NewMatcher(DefaultThreshold).FindAndReplaceOne(text, oldStr, newStr, eol)
}

// FindAndReplaceOne runs the four strategies in priority order and returns
// the first non-None result.
func (m *Matcher) FindAndReplaceOne(text, oldStr, newStr, eol string) Result {
	if r := matchExact(text, oldStr, newStr); r.Kind != None {
		return r
	}
	if r := matchWhitespace(text, oldStr, newStr, eol); r.Kind != None {
		return r
	}
	if r := matchFuzzyRegex(text, oldStr, newStr); r.Kind != None {
		return r
	}
	if r := m.matchSimilarity(text, oldStr, newStr, eol); r.Kind != None {
		return r
	}
	return Result{Kind: None, Suggestion: noMatchSuggestion}
}

// matchExact scans all non-overlapping literal occurrences of oldStr.
func matchExact(text, oldStr, newStr string) Result {
	if oldStr == "" {
		return Result{Kind: None}
	}
	var spans []Span
	pos := 0
	for {
		idx := strings.Index(text[pos:], oldStr)
		if idx < 0 {
			break
		}
		start := pos + idx
		spans = append(spans, Span{Start: start, End: start + len(oldStr)})
		pos = start + len(oldStr)
	}
	switch len(spans) {
	case 0:
		return Result{Kind: None}
	case 1:
		s := spans[0]
		return Result{
			Kind: Exact,
			Text: text[:s.Start] + newStr + text[s.End:],
			Span: s,
		}
	default:
		return Result{Kind: Multiple, Strategy: Exact, Spans: spans}
	}
}

// matchWhitespace compares trimmed lines, ignoring indentation and trailing
// whitespace. A match is a contiguous run of document lines whose trimmed
// forms equal the trimmed search lines. The matched run is replaced
// line-for-line with newStr.
func matchWhitespace(text, oldStr, newStr, eol string) Result {
	needle := trimmedLines(oldStr)
	if len(needle) == 0 {
		return Result{Kind: None}
	}

	docLines := strings.Split(text, "\n")
	offsets := lineStartOffsets(docLines)
	trimmed := make([]string, len(docLines))
	for i, line := range docLines {
		trimmed[i] = strings.TrimSpace(line)
	}

	var starts []int
	for i := 0; i+len(needle) <= len(trimmed); i++ {
		ok := true
		for j := range needle {
			if trimmed[i+j] != needle[j] {
				ok = false
				break
			}
		}
		if ok {
			starts = append(starts, i)
		}
	}

	spanAt := func(i int) (Span, bool) {
		start := offsets[i]
		last := i + len(needle)
		if last < len(docLines) {
			// Run ends before EOF: the span swallows the final line
			// terminator so the replacement re-adds it.
			return Span{Start: start, End: offsets[last]}, true
		}
		return Span{Start: start, End: len(text)}, false
	}

	switch len(starts) {
	case 0:
		return Result{Kind: None}
	case 1:
		span, terminated := spanAt(starts[0])
		replacement := newStr
		if terminated {
			replacement += eol
		}
		return Result{
			Kind: Whitespace,
			Text: text[:span.Start] + replacement + text[span.End:],
			Span: span,
		}
	default:
		spans := make([]Span, len(starts))
		for i, s := range starts {
			spans[i], _ = spanAt(s)
		}
		return Result{Kind: Multiple, Strategy: Whitespace, Spans: spans}
	}
}

// matchFuzzyRegex builds a regex from oldStr where every line is escaped and
// followed by `[ \t]*\r?\n`, tolerating trailing whitespace and either
// line-ending style. The final line omits the newline requirement unless
// oldStr itself ended in one.
func matchFuzzyRegex(text, oldStr, newStr string) Result {
	if oldStr == "" {
		return Result{Kind: None}
	}
	endsWithNewline := strings.HasSuffix(oldStr, "\n")
	lines := strings.Split(oldStr, "\n")
	if endsWithNewline {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return Result{Kind: None}
	}

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(regexp.QuoteMeta(strings.TrimSuffix(line, "\r")))
		if i < len(lines)-1 || endsWithNewline {
			b.WriteString(`[ \t]*\r?\n`)
		}
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return Result{Kind: None}
	}

	matches := re.FindAllStringIndex(text, -1)
	switch len(matches) {
	case 0:
		return Result{Kind: None}
	case 1:
		span := Span{Start: matches[0][0], End: matches[0][1]}
		return Result{
			Kind: Fuzzy,
			Text: text[:span.Start] + newStr + text[span.End:],
			Span: span,
		}
	default:
		spans := make([]Span, len(matches))
		for i, m := range matches {
			spans[i] = Span{Start: m[0], End: m[1]}
		}
		return Result{Kind: Multiple, Strategy: Fuzzy, Spans: spans}
	}
}

// matchSimilarity slides a window of oldStr's line count across the document
// and scores each position by mean per-line Levenshtein similarity. The best
// window strictly above the threshold wins. Last resort, bounded by the
// package guards.
func (m *Matcher) matchSimilarity(text, oldStr, newStr, eol string) Result {
	if len(oldStr) > MaxSimilaritySearchChars {
		return Result{Kind: None}
	}
	needle, needleTrimmed := splitDropTrailingEmpty(oldStr, eol)
	if len(needle) == 0 || len(needle) > MaxSimilaritySearchLines {
		return Result{Kind: None}
	}
	docLines := strings.Split(text, eol)
	if len(docLines) > MaxSimilarityDocLines {
		return Result{Kind: None}
	}

	n := len(needle)
	best := -1
	bestSim := m.Threshold
	for i := 0; i+n <= len(docLines); i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += SimilarityRatio(needle[j], docLines[i+j])
		}
		if avg := sum / float64(n); avg > bestSim {
			bestSim = avg
			best = i
		}
	}
	if best < 0 {
		return Result{Kind: None}
	}

	// Splice the replacement lines into the matched window. The span covers
	// the window's content without its trailing terminator.
	start := 0
	for i := 0; i < best; i++ {
		start += len(docLines[i]) + len(eol)
	}
	length := (n - 1) * len(eol)
	for j := 0; j < n; j++ {
		length += len(docLines[best+j])
	}
	span := Span{Start: start, End: start + length}

	replacement := newStr
	if needleTrimmed {
		replacement = strings.TrimSuffix(replacement, eol)
	}
	return Result{
		Kind:       Similarity,
		Text:       text[:span.Start] + replacement + text[span.End:],
		Span:       span,
		Similarity: bestSim,
		Suggestion: similaritySuggestion,
	}
}

// trimmedLines splits s into lines and trims each; a trailing empty line
// from a terminal newline is dropped.
func trimmedLines(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// splitDropTrailingEmpty splits s on sep and drops a trailing empty element
// from a terminal separator, reporting whether it did.
func splitDropTrailingEmpty(s, sep string) ([]string, bool) {
	parts := strings.Split(s, sep)
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		return parts[:len(parts)-1], true
	}
	return parts, false
}

// lineStartOffsets returns the byte offset of the start of each line, for
// lines produced by splitting on "\n".
func lineStartOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + 1
	}
	return offsets
}
