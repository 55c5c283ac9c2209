// Package progress renders the single-line progress bar, ETA, and the
// final statistics block on stderr.
package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/djairjr/translate-folder/internal/pipeline"
)

const (
	barWidth    = 30
	maxFileName = 30
)

var (
	cyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// Reporter tracks run progress and renders it as a carriage-return
// updated line. Safe for concurrent FileDone calls.
type Reporter struct {
	mu        sync.Mutex
	out       io.Writer
	total     int
	processed int
	start     time.Time
}

// NewReporter creates a reporter for a run over total files.
func NewReporter(out io.Writer, total int) *Reporter {
	return &Reporter{out: out, total: total, start: time.Now()}
}

// FileDone records one finished file and redraws the progress line.
func (r *Reporter) FileDone(path string, outcome pipeline.Outcome, snap pipeline.StatsSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.processed++
	elapsed := time.Since(r.start)

	percent := 0.0
	if r.total > 0 {
		percent = float64(r.processed) / float64(r.total) * 100
	}
	filled := barWidth * r.processed / max(r.total, 1)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	name := filepath.Base(path)
	if runes := []rune(name); len(runes) > maxFileName {
		name = "..." + string(runes[len(runes)-(maxFileName-3):])
	}

	marker := "∅"
	if outcome == pipeline.Written {
		marker = green("✓")
	} else if outcome == pipeline.Failed {
		marker = yellow("!")
	}

	fmt.Fprintf(r.out, "\r%s\r", strings.Repeat(" ", 120))
	fmt.Fprintf(r.out, "[%s] %.1f%% (%d/%d) %s ETA: %s %dc %ds %di %dmd | %s %s",
		cyan(bar), percent, r.processed, r.total,
		FormatDuration(elapsed), r.eta(elapsed),
		snap.Comments, snap.Strings, snap.Identifiers, snap.MarkdownLines,
		name, marker)
}

// Finish terminates the progress line and prints the final statistics.
func (r *Reporter) Finish(snap pipeline.StatsSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.start)

	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.out, "%s\n", green("Translation complete"))
	fmt.Fprintf(r.out, "  Files written:          %d/%d\n", snap.FilesWritten, r.total)
	fmt.Fprintf(r.out, "  Comments translated:    %d\n", snap.Comments)
	fmt.Fprintf(r.out, "  Strings translated:     %d\n", snap.Strings)
	fmt.Fprintf(r.out, "  Identifiers translated: %d\n", snap.Identifiers)
	fmt.Fprintf(r.out, "  Markdown lines:         %d\n", snap.MarkdownLines)
	fmt.Fprintf(r.out, "  Total time:             %s\n", FormatDuration(elapsed))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(r.out, "  Throughput:             %.1f files/s\n", float64(r.processed)/secs)
	}
}

// eta estimates the remaining time from the per-file average so far.
func (r *Reporter) eta(elapsed time.Duration) string {
	if r.processed == 0 || r.total == 0 {
		return "calculating..."
	}
	perFile := elapsed / time.Duration(r.processed)
	remaining := perFile * time.Duration(r.total-r.processed)
	if remaining <= 0 {
		return "0s"
	}
	at := time.Now().Add(remaining)
	return fmt.Sprintf("%s (%s)", FormatDuration(remaining), at.Format("15:04:05"))
}

// FormatDuration renders a duration the way humans read it: seconds
// below a minute, minutes and seconds below an hour, hours and minutes
// above.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 60:
		return fmt.Sprintf("%.1fs", secs)
	case secs < 3600:
		return fmt.Sprintf("%dmin %ds", int(secs)/60, int(secs)%60)
	default:
		return fmt.Sprintf("%dh %dmin", int(secs)/3600, (int(secs)%3600)/60)
	}
}
