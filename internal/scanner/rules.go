package scanner

import "regexp"

// FileRule holds the lexical rules for one file type. Patterns are
// compiled once at package init; the table is never mutated at runtime.
type FileRule struct {
	// LineComment matches a single-line comment including its delimiter.
	LineComment *regexp.Regexp
	// BlockComment matches a block comment including its delimiters.
	BlockComment *regexp.Regexp
	// StringLit matches a quoted string literal, escape-aware.
	StringLit *regexp.Regexp
	// Identifiers enables identifier extraction (C-like declaration syntax).
	Identifiers bool
	// LineMode switches the pipeline to whole-line translation (Markdown).
	LineMode bool
}

var (
	slashLine  = regexp.MustCompile(`//[^\n]*`)
	slashBlock = regexp.MustCompile(`(?s)/\*.*?\*/`)
	hashLine   = regexp.MustCompile(`#[^\n]*`)
	pyBlock    = regexp.MustCompile(`(?s)'''.*?'''|""".*?"""`)
	htmlBlock  = regexp.MustCompile(`(?s)<!--.*?-->`)
	phpLine    = regexp.MustCompile(`#[^\n]*|//[^\n]*`)

	// doubleQuoted permits escaped quotes inside the literal. It is
	// escape-aware, not nesting-aware.
	doubleQuoted = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
)

var cLike = FileRule{
	LineComment:  slashLine,
	BlockComment: slashBlock,
	StringLit:    doubleQuoted,
	Identifiers:  true,
}

// rules maps a lowercased file extension to its lexical rule set.
var rules = map[string]FileRule{
	".py":   {LineComment: hashLine, BlockComment: pyBlock, StringLit: doubleQuoted},
	".c":    cLike,
	".cpp":  cLike,
	".h":    cLike,
	".ino":  cLike,
	".java": cLike,
	".js":   cLike,
	".ts":   cLike,
	".css":  {LineComment: slashLine, BlockComment: slashBlock, StringLit: doubleQuoted},
	".php":  {LineComment: phpLine, BlockComment: slashBlock, StringLit: doubleQuoted},
	".html": {LineComment: htmlBlock, BlockComment: htmlBlock, StringLit: doubleQuoted},
	".md":   {LineMode: true},
}

// RuleFor returns the rule set for a file extension.
func RuleFor(ext string) (FileRule, bool) {
	r, ok := rules[ext]
	return r, ok
}

// SupportedExtensions returns the extensions the scanner has rules for.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(rules))
	for ext := range rules {
		exts = append(exts, ext)
	}
	return exts
}
