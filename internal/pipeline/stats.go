package pipeline

import "sync"

// Counts holds the per-kind substitution counters for one file. Only
// substitutions that actually changed text are counted; a span whose
// translation call failed and fell back to the original is not.
type Counts struct {
	Comments      int
	Strings       int
	Identifiers   int
	MarkdownLines int
}

// Add accumulates another file's counters.
func (c *Counts) Add(other Counts) {
	c.Comments += other.Comments
	c.Strings += other.Strings
	c.Identifiers += other.Identifiers
	c.MarkdownLines += other.MarkdownLines
}

// Stats aggregates run-wide counters. It is created once per run and
// updated by the orchestrator only after a successful write; the mutex
// makes it safe to share when files are processed in parallel.
type Stats struct {
	mu      sync.Mutex
	written int
	counts  Counts
}

// NewStats creates a zeroed aggregator.
func NewStats() *Stats {
	return &Stats{}
}

// RecordWritten registers one written file and its substitutions.
func (s *Stats) RecordWritten(c Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written++
	s.counts.Add(c)
}

// StatsSnapshot is a point-in-time copy for the progress reporter.
type StatsSnapshot struct {
	FilesWritten int
	Counts
}

// Snapshot returns a consistent copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{FilesWritten: s.written, Counts: s.counts}
}
