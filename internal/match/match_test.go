package match

import (
	"math"
	"strings"
	"testing"
)

func TestFindAndReplaceOneExact(t *testing.T) {
	t.Run("single occurrence", func(t *testing.T) {
		res := FindAndReplaceOne("a\nfoo\nb\n", "foo", "bar", "\n")
		if res.Kind != Exact {
			t.Fatalf("Kind = %v, want Exact", res.Kind)
		}
		if res.Text != "a\nbar\nb\n" {
			t.Errorf("Text = %q, want %q", res.Text, "a\nbar\nb\n")
		}
		if res.Span != (Span{Start: 2, End: 5}) {
			t.Errorf("Span = %+v, want {2 5}", res.Span)
		}
		if !res.Found() {
			t.Error("Found() = false, want true")
		}
	})

	t.Run("two occurrences are ambiguous", func(t *testing.T) {
		res := FindAndReplaceOne("foo x foo", "foo", "bar", "\n")
		if res.Kind != Multiple {
			t.Fatalf("Kind = %v, want Multiple", res.Kind)
		}
		if res.Strategy != Exact {
			t.Errorf("Strategy = %v, want Exact", res.Strategy)
		}
		want := []Span{{0, 3}, {6, 9}}
		if len(res.Spans) != len(want) {
			t.Fatalf("Spans = %+v, want %+v", res.Spans, want)
		}
		for i := range want {
			if res.Spans[i] != want[i] {
				t.Errorf("Spans[%d] = %+v, want %+v", i, res.Spans[i], want[i])
			}
		}
		if res.Found() {
			t.Error("Found() = true for Multiple, want false")
		}
	})

	t.Run("overlapping candidates count non-overlapping", func(t *testing.T) {
		res := FindAndReplaceOne("aaaa", "aa", "b", "\n")
		if res.Kind != Multiple {
			t.Fatalf("Kind = %v, want Multiple", res.Kind)
		}
		if len(res.Spans) != 2 {
			t.Errorf("len(Spans) = %d, want 2", len(res.Spans))
		}
	})
}

func TestFindAndReplaceOneWhitespace(t *testing.T) {
	t.Run("indentation differences", func(t *testing.T) {
		text := "  foo();\n\tbar();\nrest\n"
		res := FindAndReplaceOne(text, "foo();\nbar();", "baz();", "\n")
		if res.Kind != Whitespace {
			t.Fatalf("Kind = %v, want Whitespace", res.Kind)
		}
		if res.Text != "baz();\nrest\n" {
			t.Errorf("Text = %q, want %q", res.Text, "baz();\nrest\n")
		}
		if res.Span != (Span{Start: 0, End: 17}) {
			t.Errorf("Span = %+v, want {0 17}", res.Span)
		}
	})

	t.Run("run ending at EOF without newline", func(t *testing.T) {
		res := FindAndReplaceOne("a\n\tfoo", "  foo", "bar", "\n")
		if res.Kind != Whitespace {
			t.Fatalf("Kind = %v, want Whitespace", res.Kind)
		}
		if res.Text != "a\nbar" {
			t.Errorf("Text = %q, want %q", res.Text, "a\nbar")
		}
	})

	t.Run("function body reindented", func(t *testing.T) {
		text := "function foo() {\n  return 1;\n}\n"
		res := FindAndReplaceOne(text, "function foo() {\nreturn 1;\n}", "function foo() {\n  return 2;\n}", "\n")
		if res.Kind != Whitespace {
			t.Fatalf("Kind = %v, want Whitespace", res.Kind)
		}
		if res.Text != "function foo() {\n  return 2;\n}\n" {
			t.Errorf("Text = %q", res.Text)
		}
	})

	t.Run("ambiguous trimmed runs", func(t *testing.T) {
		text := "\tfoo()\nmid\n  foo()\n"
		res := FindAndReplaceOne(text, "    foo()", "bar()", "\n")
		if res.Kind != Multiple {
			t.Fatalf("Kind = %v, want Multiple", res.Kind)
		}
		if res.Strategy != Whitespace {
			t.Errorf("Strategy = %v, want Whitespace", res.Strategy)
		}
	})
}

func TestFindAndReplaceOneFuzzy(t *testing.T) {
	t.Run("trailing whitespace mid-line", func(t *testing.T) {
		res := FindAndReplaceOne("xfoo \nbar y", "foo\nbar", "FB", "\n")
		if res.Kind != Fuzzy {
			t.Fatalf("Kind = %v, want Fuzzy", res.Kind)
		}
		if res.Text != "xFB y" {
			t.Errorf("Text = %q, want %q", res.Text, "xFB y")
		}
		if res.Span != (Span{Start: 1, End: 9}) {
			t.Errorf("Span = %+v, want {1 9}", res.Span)
		}
	})
}

func TestFindAndReplaceOneSimilarity(t *testing.T) {
	text := "alpha one\nbeta two\ngamma three\n"

	t.Run("near-identical block above threshold", func(t *testing.T) {
		old := "alpha one\nbeta twa\ngamma three\n"
		new := "alpha one\nbeta two!\ngamma three\n"
		res := FindAndReplaceOne(text, old, new, "\n")
		if res.Kind != Similarity {
			t.Fatalf("Kind = %v, want Similarity", res.Kind)
		}
		if res.Text != new {
			t.Errorf("Text = %q, want %q", res.Text, new)
		}
		wantSim := (1.0 + 0.875 + 1.0) / 3.0
		if math.Abs(res.Similarity-wantSim) > 1e-9 {
			t.Errorf("Similarity = %v, want %v", res.Similarity, wantSim)
		}
		if res.Suggestion == "" {
			t.Error("Suggestion is empty, want a verify hint")
		}
	})

	t.Run("below threshold yields no match", func(t *testing.T) {
		old := "alpha one\nbeta xyz\ngamma three\n"
		res := FindAndReplaceOne(text, old, "anything", "\n")
		if res.Kind != None {
			t.Fatalf("Kind = %v, want None", res.Kind)
		}
		if res.Suggestion == "" {
			t.Error("Suggestion is empty, want remediation guidance")
		}
	})

	t.Run("lower threshold accepts the same block", func(t *testing.T) {
		m := NewMatcher(0.8)
		old := "alpha one\nbeta xyz\ngamma three\n"
		res := m.FindAndReplaceOne(text, old, "replaced\n", "\n")
		if res.Kind != Similarity {
			t.Fatalf("Kind = %v, want Similarity at threshold 0.8", res.Kind)
		}
	})
}

func TestSimilarityGuards(t *testing.T) {
	m := NewMatcher(DefaultThreshold)

	t.Run("search string too long", func(t *testing.T) {
		old := strings.Repeat("a", MaxSimilaritySearchChars+1)
		if res := m.matchSimilarity("doc", old, "x", "\n"); res.Kind != None {
			t.Errorf("Kind = %v, want None", res.Kind)
		}
	})

	t.Run("too many search lines", func(t *testing.T) {
		old := strings.Repeat("l\n", MaxSimilaritySearchLines+1)
		if res := m.matchSimilarity("doc", old, "x", "\n"); res.Kind != None {
			t.Errorf("Kind = %v, want None", res.Kind)
		}
	})

	t.Run("document too long", func(t *testing.T) {
		text := strings.Repeat("x\n", MaxSimilarityDocLines+1)
		if res := m.matchSimilarity(text, "y\n", "z\n", "\n"); res.Kind != None {
			t.Errorf("Kind = %v, want None", res.Kind)
		}
	})
}

func TestFindAndReplaceOneEmptyAndMissing(t *testing.T) {
	t.Run("empty search never matches", func(t *testing.T) {
		res := FindAndReplaceOne("content\n", "", "new", "\n")
		if res.Kind != None {
			t.Errorf("Kind = %v, want None", res.Kind)
		}
	})

	t.Run("absent text reports none with suggestion", func(t *testing.T) {
		res := FindAndReplaceOne("content\n", "totally different text", "new", "\n")
		if res.Kind != None {
			t.Fatalf("Kind = %v, want None", res.Kind)
		}
		if !strings.Contains(res.Suggestion, "no match") {
			t.Errorf("Suggestion = %q, want it to mention no match", res.Suggestion)
		}
	})
}

func TestNewMatcherDefaults(t *testing.T) {
	if m := NewMatcher(0); m.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", m.Threshold, DefaultThreshold)
	}
	if m := NewMatcher(-1); m.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", m.Threshold, DefaultThreshold)
	}
	if m := NewMatcher(0.8); m.Threshold != 0.8 {
		t.Errorf("Threshold = %v, want 0.8", m.Threshold)
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{None, "none"},
		{Exact, "exact"},
		{Whitespace, "whitespace"},
		{Fuzzy, "fuzzy"},
		{Similarity, "similarity"},
		{Multiple, "multiple"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
