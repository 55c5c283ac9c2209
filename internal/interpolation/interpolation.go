// Package interpolation shields format placeholders inside string
// literals from the translator. `printf("%d 个文件", n)` must keep its
// %d verb after the Chinese text around it is translated.
package interpolation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping records one protected placeholder and the token standing in
// for it while the text is at the translator.
type Mapping struct {
	Original    string
	Placeholder string
}

// patterns detect interpolation variables commonly found in source strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %.2f
	regexp.MustCompile(`%%`),                                   // escaped percent
	regexp.MustCompile(`\\[ntr"\\]`),                           // escape sequences
}

type match struct {
	start, end int
	value      string
}

// Protect replaces every interpolation variable with a stable
// {{var_N}} token a translator will pass through untouched. The
// returned mappings restore the originals afterwards.
func Protect(text string) (string, []Mapping) {
	var found []match
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			found = append(found, match{loc[0], loc[1], text[loc[0]:loc[1]]})
		}
	}
	if len(found) == 0 {
		return text, nil
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end-found[i].start > found[j].end-found[j].start
	})

	// Drop overlapping matches, keeping the leftmost-longest.
	kept := found[:0]
	lastEnd := -1
	for _, m := range found {
		if m.start >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.end
		}
	}

	mappings := make([]Mapping, len(kept))
	var sb strings.Builder
	prev := 0
	for i, m := range kept {
		token := fmt.Sprintf("{{var_%d}}", i+1)
		mappings[i] = Mapping{Original: m.value, Placeholder: token}
		sb.WriteString(text[prev:m.start])
		sb.WriteString(token)
		prev = m.end
	}
	sb.WriteString(text[prev:])

	return sb.String(), mappings
}

// Restore swaps the {{var_N}} tokens back for their original values.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
