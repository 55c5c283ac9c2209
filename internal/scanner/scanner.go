// Package scanner finds the byte ranges of a source buffer that hold
// translatable Chinese text: comments, string literals, and identifier
// declarations/usages for C-like file types.
package scanner

import (
	"regexp"
	"sort"
	"strings"

	"github.com/djairjr/translate-folder/internal/textutil"
)

// SpanKind categorizes an extracted span.
type SpanKind int

const (
	Comment SpanKind = iota
	String
	IdentifierDecl
	IdentifierUsage
)

func (k SpanKind) String() string {
	switch k {
	case Comment:
		return "comment"
	case String:
		return "string"
	case IdentifierDecl:
		return "identifier_decl"
	case IdentifierUsage:
		return "identifier_usage"
	}
	return "unknown"
}

// Span is a contiguous byte range in one specific buffer snapshot.
// Text always equals buffer[Start:End] at extraction time; offsets are
// only valid against that snapshot.
type Span struct {
	Start int
	End   int
	Kind  SpanKind
	Text  string
	// Name carries the identifier portion for IdentifierDecl spans,
	// where Text is the whole "type [*]name" match.
	Name string
}

var (
	// identDecl captures a primitive type keyword, an optional pointer
	// marker, and an identifier that starts with a Han character.
	identDecl = regexp.MustCompile(`\b(int|char|float|double|void|bool|string|long|short)\s+(\*?\s*\p{Han}[\p{Han}_a-zA-Z0-9]*)`)
	// identUsage matches a standalone Han-led word anywhere in the buffer.
	identUsage = regexp.MustCompile(`\p{Han}[\p{Han}_a-zA-Z0-9]*`)
)

// ScanText extracts comment and string spans whose interior contains
// Chinese. Spans are non-overlapping (block comments win over line
// comments, comments win over strings) and sorted by descending Start,
// which is the order the patcher requires.
func ScanText(buf []byte, rule FileRule) []Span {
	var spans []Span

	spans = appendMatches(spans, buf, rule.BlockComment, Comment)
	spans = appendMatches(spans, buf, rule.LineComment, Comment)
	spans = appendMatches(spans, buf, rule.StringLit, String)

	sortDescending(spans)
	return spans
}

// ScanIdentifiers extracts identifier declaration and usage spans for
// C-like file types. Usages inside comments, string literals, or an
// already-matched declaration are excluded by masking those ranges
// first, so a bare word inside a literal is never renamed.
func ScanIdentifiers(buf []byte, rule FileRule) []Span {
	if !rule.Identifiers {
		return nil
	}

	mask := maskRanges(buf, rule)

	var spans []Span
	for _, loc := range identDecl.FindAllSubmatchIndex(buf, -1) {
		if overlapsAny(loc[0], loc[1], mask) {
			continue
		}
		name := strings.TrimSpace(string(buf[loc[4]:loc[5]]))
		if !textutil.ContainsChinese(name) {
			continue
		}
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Kind:  IdentifierDecl,
			Text:  string(buf[loc[0]:loc[1]]),
			Name:  name,
		})
	}

	// Declarations become part of the mask so the usage rule does not
	// re-match the identifier inside its own declaration.
	declMask := mask
	for _, s := range spans {
		declMask = append(declMask, byteRange{s.Start, s.End})
	}

	for _, loc := range identUsage.FindAllIndex(buf, -1) {
		if overlapsAny(loc[0], loc[1], declMask) {
			continue
		}
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Kind:  IdentifierUsage,
			Text:  string(buf[loc[0]:loc[1]]),
		})
	}

	sortDescending(spans)
	return spans
}

// CommentBody splits a comment span into its delimiters and interior,
// so the interior alone is gated and translated and the delimiters are
// reattached verbatim afterwards.
func CommentBody(text string) (open, body, closing string) {
	switch {
	case strings.HasPrefix(text, "<!--") && strings.HasSuffix(text, "-->"):
		return "<!-- ", strings.TrimSpace(text[4 : len(text)-3]), " -->"
	case strings.HasPrefix(text, "/*") && strings.HasSuffix(text, "*/"):
		return "/* ", strings.TrimSpace(text[2 : len(text)-2]), " */"
	case strings.HasPrefix(text, "'''") && strings.HasSuffix(text, "'''") && len(text) >= 6:
		return "'''", text[3 : len(text)-3], "'''"
	case strings.HasPrefix(text, `"""`) && strings.HasSuffix(text, `"""`) && len(text) >= 6:
		return `"""`, text[3 : len(text)-3], `"""`
	case strings.HasPrefix(text, "//"):
		return "// ", strings.TrimSpace(text[2:]), ""
	case strings.HasPrefix(text, "#"):
		return "# ", strings.TrimSpace(text[1:]), ""
	}
	return "", text, ""
}

// StringBody returns the interior of a quoted literal span.
func StringBody(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

type byteRange struct{ start, end int }

// maskRanges locates every comment and string literal in the buffer,
// regardless of whether it contains Chinese. The identifier scan is
// restricted to the complement of these ranges.
func maskRanges(buf []byte, rule FileRule) []byteRange {
	var ranges []byteRange
	for _, re := range []*regexp.Regexp{rule.BlockComment, rule.LineComment, rule.StringLit} {
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllIndex(buf, -1) {
			ranges = append(ranges, byteRange{loc[0], loc[1]})
		}
	}
	return ranges
}

func overlapsAny(start, end int, ranges []byteRange) bool {
	for _, r := range ranges {
		if start < r.end && end > r.start {
			return true
		}
	}
	return false
}

// appendMatches collects matches of re whose interior contains Chinese,
// skipping any match that overlaps a span already collected by an
// earlier rule in the same pass.
func appendMatches(spans []Span, buf []byte, re *regexp.Regexp, kind SpanKind) []Span {
	if re == nil {
		return spans
	}
	for _, loc := range re.FindAllIndex(buf, -1) {
		if overlapsSpans(loc[0], loc[1], spans) {
			continue
		}
		text := string(buf[loc[0]:loc[1]])
		var interior string
		if kind == String {
			interior = StringBody(text)
		} else {
			_, interior, _ = CommentBody(text)
		}
		if !textutil.ContainsChinese(interior) {
			continue
		}
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Kind:  kind,
			Text:  text,
		})
	}
	return spans
}

func overlapsSpans(start, end int, spans []Span) bool {
	for _, s := range spans {
		if start < s.End && end > s.Start {
			return true
		}
	}
	return false
}

func sortDescending(spans []Span) {
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start > spans[j].Start
	})
}
