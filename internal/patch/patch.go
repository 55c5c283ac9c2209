// Package patch applies positional replacements to a byte buffer.
// Replacements are applied strictly right-to-left so that an edit never
// shifts the offsets of a not-yet-applied edit to its left.
package patch

import (
	"bytes"
	"fmt"

	"github.com/djairjr/translate-folder/internal/scanner"
)

// Replacement pairs a span with the text that should take its place.
// The span's offsets must refer to the same buffer snapshot Apply is
// called with.
type Replacement struct {
	Span    scanner.Span
	NewText string
}

// Apply substitutes each replacement's byte range with its new text and
// returns the rebuilt buffer. Replacements must be non-overlapping and
// sorted by descending span start; every byte outside the spans is
// carried over unchanged.
func Apply(buf []byte, reps []Replacement) ([]byte, error) {
	out := buf
	prevStart := len(buf) + 1

	for _, rep := range reps {
		s := rep.Span
		if s.Start < 0 || s.End > len(out) || s.Start >= s.End {
			return nil, fmt.Errorf("span %d:%d out of bounds for buffer of %d bytes", s.Start, s.End, len(out))
		}
		if s.End > prevStart {
			return nil, fmt.Errorf("span %d:%d overlaps previously applied span at %d", s.Start, s.End, prevStart)
		}
		if s.Text != "" && !bytes.Equal(out[s.Start:s.End], []byte(s.Text)) {
			return nil, fmt.Errorf("span %d:%d is stale: buffer no longer matches extracted text", s.Start, s.End)
		}

		next := make([]byte, 0, len(out)-(s.End-s.Start)+len(rep.NewText))
		next = append(next, out[:s.Start]...)
		next = append(next, rep.NewText...)
		next = append(next, out[s.End:]...)
		out = next

		prevStart = s.Start
	}

	return out, nil
}
