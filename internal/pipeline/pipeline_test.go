package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTranslator maps known source texts to fixed translations and
// records every call. Unknown text is returned unchanged; texts in
// failOn return an error.
type fakeTranslator struct {
	mu     sync.Mutex
	m      map[string]string
	failOn map[string]bool
	calls  []string
}

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.failOn[text] {
		return "", errors.New("translation service unavailable")
	}
	if v, ok := f.m[text]; ok {
		return v, nil
	}
	return text, nil
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newOrchestrator(tr *fakeTranslator) (*Orchestrator, *Stats) {
	stats := NewStats()
	return New(tr, stats), stats
}

func TestProcessFileCSource(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{m: map[string]string{
		"计数器":          "Counter",
		"消息":           "Message",
		"注释一":          "first comment",
		"你好 {{var_1}}": "hello {{var_1}}",
	}}
	o, stats := newOrchestrator(tr)

	dir := t.TempDir()
	path := writeFile(t, dir, "main.c", "// 注释一\nint 计数器 = 0;\nchar *消息 = \"你好 %s\";\n计数器++;\n")

	res := o.ProcessFile(context.Background(), path)
	require.NoError(t, res.Err)
	require.Equal(t, Written, res.Outcome)

	got := readFile(t, path)
	require.Equal(t, "// first comment\nint counter = 0;\nchar *message = \"hello %s\";\ncounter++;\n", got)

	require.Equal(t, Counts{Comments: 1, Strings: 1, Identifiers: 3}, res.Counts)
	require.Equal(t, 1, stats.Snapshot().FilesWritten)
}

func TestProcessFileDeclarationPreservesTypeAndPointer(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{m: map[string]string{"计数器": "Counter"}}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	path := writeFile(t, dir, "x.c", "int 计数器 = 1;\n")

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Written, res.Outcome)
	require.Equal(t, "int counter = 1;\n", readFile(t, path))
}

func TestProcessFileScriptGating(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{}
	o, stats := newOrchestrator(tr)

	dir := t.TempDir()
	content := "// plain comment\nint x = 1; /* nothing here */\n"
	path := writeFile(t, dir, "x.c", content)

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Skipped, res.Outcome)
	require.Equal(t, content, readFile(t, path), "file without Chinese must be byte-identical")
	require.Zero(t, tr.callCount(), "no text may be sent to the translator")
	require.Zero(t, stats.Snapshot().FilesWritten)
}

func TestProcessFileFallbackOnTranslationFailure(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{
		m:      map[string]string{"可以": "okay"},
		failOn: map[string]bool{"失败": true},
	}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", "# 失败\n# 可以\n")

	res := o.ProcessFile(context.Background(), path)
	require.NoError(t, res.Err)
	require.Equal(t, Written, res.Outcome)

	got := readFile(t, path)
	require.Contains(t, got, "# 失败", "failed span keeps its original text")
	require.Contains(t, got, "# okay")
	require.Equal(t, Counts{Comments: 1}, res.Counts, "failed span is not counted")
}

func TestProcessFileAllSpansFailMeansSkipped(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{failOn: map[string]bool{"失败": true}}
	o, stats := newOrchestrator(tr)

	dir := t.TempDir()
	content := "# 失败\n"
	path := writeFile(t, dir, "x.py", content)

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Skipped, res.Outcome)
	require.Equal(t, content, readFile(t, path))
	require.Zero(t, stats.Snapshot().FilesWritten)
}

func TestProcessFileMarkdownLineMode(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{m: map[string]string{
		"# 标题":     "# Title",
		"这是第一段文字。": "This is the first paragraph.",
	}}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	content := "# 标题\n\nplain english line\n这是第一段文字。\n"
	path := writeFile(t, dir, "README.md", content)

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Written, res.Outcome)
	require.Equal(t, Counts{MarkdownLines: 2}, res.Counts)

	got := readFile(t, path)
	require.Equal(t, "# Title\n\nplain english line\nThis is the first paragraph.\n", got)
}

func TestProcessFileMarkdownPreservesShape(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{m: map[string]string{"中文": "Chinese"}}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	// No trailing newline.
	path := writeFile(t, dir, "note.md", "中文")

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Written, res.Outcome)
	require.Equal(t, "Chinese", readFile(t, path), "trailing newline shape must be preserved")
}

func TestProcessFileIdempotent(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{m: map[string]string{
		"注释":  "comment",
		"文本":  "text",
		"计数器": "Counter",
	}}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	path := writeFile(t, dir, "x.c", "// 注释\nint 计数器 = \"文本\" ? 1 : 0;\n")

	first := o.ProcessFile(context.Background(), path)
	require.Equal(t, Written, first.Outcome)
	afterFirst := readFile(t, path)

	second := o.ProcessFile(context.Background(), path)
	require.Equal(t, Skipped, second.Outcome)
	require.Equal(t, afterFirst, readFile(t, path), "second run must be a no-op")
}

func TestProcessFileUnsupportedExtension(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", "中文")

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Skipped, res.Outcome)
	require.Zero(t, tr.callCount())
}

func TestProcessFileInvalidUTF8(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.c")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, '/', '/'}, 0644))

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Failed, res.Outcome)
	require.Error(t, res.Err)
}

func TestProcessFileMissing(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{}
	o, _ := newOrchestrator(tr)

	res := o.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.c"))
	require.Equal(t, Failed, res.Outcome)
	require.Error(t, res.Err)
}

func TestProcessFileMultilineBlockComment(t *testing.T) {
	t.Parallel()

	tr := &fakeTranslator{m: map[string]string{
		"第一行": "line one",
		"第二行": "line two",
	}}
	o, _ := newOrchestrator(tr)

	dir := t.TempDir()
	path := writeFile(t, dir, "x.c", "/* 第一行\nkeep this line\n第二行 */\nint x;\n")

	res := o.ProcessFile(context.Background(), path)
	require.Equal(t, Written, res.Outcome)

	got := readFile(t, path)
	require.Contains(t, got, "line one")
	require.Contains(t, got, "keep this line")
	require.Contains(t, got, "line two")
	require.Contains(t, got, "int x;")
}

func TestStatsConcurrentRecord(t *testing.T) {
	t.Parallel()

	stats := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.RecordWritten(Counts{Comments: 1, Strings: 2})
		}()
	}
	wg.Wait()

	snap := stats.Snapshot()
	require.Equal(t, 50, snap.FilesWritten)
	require.Equal(t, 50, snap.Comments)
	require.Equal(t, 100, snap.Strings)
}
