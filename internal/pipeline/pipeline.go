// Package pipeline sequences the per-file translation stages: scan,
// gate, translate, patch, and the final write decision. Each file is
// read once, fully transformed in memory, and written back in a single
// operation, so an interrupted run never leaves a half-translated file.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/djairjr/translate-folder/internal/interpolation"
	"github.com/djairjr/translate-folder/internal/patch"
	"github.com/djairjr/translate-folder/internal/scanner"
	"github.com/djairjr/translate-folder/internal/textutil"
	"github.com/djairjr/translate-folder/internal/translation"
)

// Outcome is the terminal state of one file.
type Outcome int

const (
	// Written: the file changed and was persisted.
	Written Outcome = iota
	// Skipped: nothing to translate, the file was left untouched.
	Skipped
	// Failed: an error was caught at the file boundary; the file was
	// left untouched and the run continues.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result reports how one file ended up.
type Result struct {
	Path    string
	Outcome Outcome
	Counts  Counts
	Err     error
}

// Orchestrator runs the translation pipeline for individual files.
type Orchestrator struct {
	translator translation.Translator
	stats      *Stats
}

// New creates an orchestrator. The translator should already be
// wrapped with the run cache so repeated spans are translated once.
func New(tr translation.Translator, stats *Stats) *Orchestrator {
	return &Orchestrator{translator: tr, stats: stats}
}

// ProcessFile reads, transforms, and possibly rewrites one file. No
// error below this boundary aborts the run: scan or patch failures,
// undecodable content, and panics all end as a Failed result.
func (o *Orchestrator) ProcessFile(ctx context.Context, path string) (res Result) {
	res = Result{Path: path, Outcome: Skipped}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Path: path, Outcome: Failed, Err: fmt.Errorf("panic: %v", r)}
			log.Error().Str("path", path).Interface("panic", r).Msg("File processing panicked")
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return Result{Path: path, Outcome: Failed, Err: fmt.Errorf("stat file: %w", err)}
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Outcome: Failed, Err: fmt.Errorf("read file: %w", err)}
	}
	if !utf8.Valid(original) {
		return Result{Path: path, Outcome: Failed, Err: fmt.Errorf("file is not valid UTF-8 text")}
	}

	rule, ok := scanner.RuleFor(strings.ToLower(filepath.Ext(path)))
	if !ok {
		return res
	}

	var final []byte
	var counts Counts

	if rule.LineMode {
		final, counts = o.translateLines(ctx, original)
	} else {
		// Identifiers are resolved first, against the pristine buffer.
		// Comments and strings are then scanned against the patched
		// intermediate buffer so their offsets refer to the state the
		// identifier pass produced.
		intermediate, identCount, err := o.applyIdentifierPass(ctx, original, rule)
		if err != nil {
			return Result{Path: path, Outcome: Failed, Err: fmt.Errorf("identifier pass: %w", err)}
		}
		final, counts, err = o.applyTextPass(ctx, intermediate, rule)
		if err != nil {
			return Result{Path: path, Outcome: Failed, Err: fmt.Errorf("comment/string pass: %w", err)}
		}
		counts.Identifiers = identCount
	}

	if bytes.Equal(final, original) {
		return res
	}

	if err := os.WriteFile(path, final, info.Mode().Perm()); err != nil {
		return Result{Path: path, Outcome: Failed, Err: fmt.Errorf("write file: %w", err)}
	}

	o.stats.RecordWritten(counts)
	log.Debug().
		Str("path", path).
		Int("comments", counts.Comments).
		Int("strings", counts.Strings).
		Int("identifiers", counts.Identifiers).
		Int("markdown_lines", counts.MarkdownLines).
		Msg("File translated")

	return Result{Path: path, Outcome: Written, Counts: counts}
}

// applyIdentifierPass renames Chinese identifiers and returns the
// patched buffer. Declaration spans keep their type keyword and
// pointer marker; only the trailing identifier token is replaced.
func (o *Orchestrator) applyIdentifierPass(ctx context.Context, buf []byte, rule scanner.FileRule) ([]byte, int, error) {
	spans := scanner.ScanIdentifiers(buf, rule)
	if len(spans) == 0 {
		return buf, 0, nil
	}

	var reps []patch.Replacement
	count := 0
	for _, s := range spans {
		var newText string
		switch s.Kind {
		case scanner.IdentifierDecl:
			parts := strings.Fields(s.Text)
			translated := translation.TranslateIdentifier(ctx, o.translator, parts[len(parts)-1])
			parts[len(parts)-1] = translated
			newText = strings.Join(parts, " ")
		case scanner.IdentifierUsage:
			newText = translation.TranslateIdentifier(ctx, o.translator, s.Text)
		default:
			continue
		}
		if newText == s.Text {
			continue
		}
		reps = append(reps, patch.Replacement{Span: s, NewText: newText})
		count++
	}

	patched, err := patch.Apply(buf, reps)
	if err != nil {
		return nil, 0, err
	}
	return patched, count, nil
}

// applyTextPass translates comment and string spans against the buffer
// left by the identifier pass.
func (o *Orchestrator) applyTextPass(ctx context.Context, buf []byte, rule scanner.FileRule) ([]byte, Counts, error) {
	var counts Counts
	spans := scanner.ScanText(buf, rule)
	if len(spans) == 0 {
		return buf, counts, nil
	}

	var reps []patch.Replacement
	for _, s := range spans {
		var newText string
		var changed bool
		switch s.Kind {
		case scanner.Comment:
			newText, changed = o.translateComment(ctx, s.Text)
			if changed {
				counts.Comments++
			}
		case scanner.String:
			newText, changed = o.translateString(ctx, s.Text)
			if changed {
				counts.Strings++
			}
		default:
			continue
		}
		if !changed {
			continue
		}
		reps = append(reps, patch.Replacement{Span: s, NewText: newText})
	}

	patched, err := patch.Apply(buf, reps)
	if err != nil {
		return nil, Counts{}, err
	}
	return patched, counts, nil
}

// translateComment rewraps a translated comment in its original
// delimiter style. Multi-line blocks are translated line by line, with
// lines containing no Chinese preserved as they are.
func (o *Orchestrator) translateComment(ctx context.Context, text string) (string, bool) {
	open, body, closing := scanner.CommentBody(text)

	if strings.Contains(body, "\n") {
		lines := strings.Split(body, "\n")
		changed := false
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if !textutil.ContainsChinese(trimmed) {
				continue
			}
			translated, err := o.translator.Translate(ctx, trimmed)
			if err != nil {
				log.Warn().Err(err).Str("text", textutil.Truncate(trimmed, 30)).Msg("Comment line translation failed")
				continue
			}
			if translated != trimmed {
				lines[i] = translated
				changed = true
			}
		}
		if !changed {
			return text, false
		}
		return strings.TrimRight(open, " ") + "\n" + strings.Join(lines, "\n") + "\n" + strings.TrimLeft(closing, " "), true
	}

	translated, err := o.translator.Translate(ctx, body)
	if err != nil {
		log.Warn().Err(err).Str("text", textutil.Truncate(body, 30)).Msg("Comment translation failed")
		return text, false
	}
	if translated == body {
		return text, false
	}
	return open + translated + closing, true
}

// translateString translates the interior of a quoted literal,
// shielding format placeholders from the translator.
func (o *Orchestrator) translateString(ctx context.Context, text string) (string, bool) {
	body := scanner.StringBody(text)

	protected, mappings := interpolation.Protect(body)
	translated, err := o.translator.Translate(ctx, protected)
	if err != nil {
		log.Warn().Err(err).Str("text", textutil.Truncate(body, 30)).Msg("String translation failed")
		return text, false
	}
	translated = interpolation.Restore(translated, mappings)
	if translated == body {
		return text, false
	}
	return `"` + translated + `"`, true
}

// translateLines is the documentation-file variant: every line
// containing Chinese is translated in place. Line count and ordering
// are preserved, as is the presence or absence of a trailing newline.
func (o *Orchestrator) translateLines(ctx context.Context, buf []byte) ([]byte, Counts) {
	var counts Counts
	lines := strings.Split(string(buf), "\n")

	for i, line := range lines {
		if !textutil.ContainsChinese(line) {
			continue
		}
		translated, err := o.translator.Translate(ctx, line)
		if err != nil {
			log.Warn().Err(err).Str("text", textutil.Truncate(line, 30)).Msg("Markdown line translation failed")
			continue
		}
		if translated != line {
			lines[i] = translated
			counts.MarkdownLines++
		}
	}

	return []byte(strings.Join(lines, "\n")), counts
}
