// Package logging provides tests for the console logger, the journal and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewConsoleFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleFromConfig(&buf, "warn", "logfmt", false, false)

	logger.Info("hidden")
	logger.Warn("piece revealed", "piece", 3)

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", got)
	}
	if !strings.Contains(got, "piece revealed") || !strings.Contains(got, "piece=3") {
		t.Errorf("expected warn line with piece field, got %q", got)
	}
	if !strings.Contains(got, "todopuzzle") {
		t.Errorf("expected prefix in output, got %q", got)
	}
}

func TestJournalRecord(t *testing.T) {
	baseDir := t.TempDir()
	workDir := t.TempDir()

	j, err := OpenJournal(baseDir, workDir)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := []Event{
		{Timestamp: ts, Type: EventTaskCompleted, TaskID: "T001"},
		{Timestamp: ts, Type: EventPieceRevealed, PieceID: Piece(0), PuzzleID: "abc"},
	}
	for _, e := range want {
		if err := j.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := j.Record(Event{Type: EventCityChanged, Message: "Rome"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if filepath.Base(j.Path) != JournalFile {
		t.Errorf("Path: got %q, want base %q", j.Path, JournalFile)
	}
	if !strings.HasPrefix(j.Dir, baseDir) {
		t.Errorf("Dir: got %q, want under %q", j.Dir, baseDir)
	}

	got, err := ReadEvents(j.Path)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events: got %d, want 3", len(got))
	}
	if diff := cmp.Diff(want, got[:2]); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got[2].Timestamp.IsZero() {
		t.Error("zero timestamp should be filled in")
	}
	if diff := cmp.Diff(Event{Type: EventCityChanged, Message: "Rome"}, got[2], cmpopts.IgnoreFields(Event{}, "Timestamp")); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestJournalAppendsAcrossOpens(t *testing.T) {
	baseDir := t.TempDir()
	workDir := t.TempDir()

	for i := 0; i < 2; i++ {
		j, err := OpenJournal(baseDir, workDir)
		if err != nil {
			t.Fatalf("OpenJournal: %v", err)
		}
		if err := j.Record(Event{Type: EventTaskAdded}); err != nil {
			t.Fatal(err)
		}
		j.Close()
	}

	path, err := FindJournal(baseDir, workDir)
	if err != nil {
		t.Fatal(err)
	}
	events, err := ReadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Errorf("events: got %d, want 2", len(events))
	}
}

func TestNilJournal(t *testing.T) {
	var j *Journal
	if err := j.Record(Event{Type: EventTaskAdded}); err != nil {
		t.Errorf("nil Record: got %v, want nil", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("nil Close: got %v, want nil", err)
	}
}

func TestJournalRecordAfterClose(t *testing.T) {
	j, err := OpenJournal(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	j.Close()
	if err := j.Record(Event{Type: EventTaskAdded}); err == nil {
		t.Error("Record after Close: expected error")
	}
}

func TestOpenJournalEmptyBaseDir(t *testing.T) {
	_, err := OpenJournal("", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty dir error, got %v", err)
	}
}

func TestReadEventsSkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), JournalFile)
	content := "{\"ts\":\"2026-01-01T00:00:00Z\",\"type\":\"task_added\"}\nnot json\n\n{\"type\":\"task_deleted\",\"task_id\":\"T002\"}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	events, err := ReadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[1].TaskID != "T002" {
		t.Errorf("events: got %+v", events)
	}

	missing, err := ReadEvents(filepath.Join(t.TempDir(), "none.jsonl"))
	if err != nil || missing != nil {
		t.Errorf("missing file: got %v, %v; want nil, nil", missing, err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", "simple"},
		{"Hello World", "Hello_World"},
		{"test-project", "test-project"},
		{"many   spaces", "many_spaces"},
		{"special@chars!", "special_chars"},
		{"", "project"},
		{"   ", "project"},
		{"___", "project"},
		{"test.-_project", "test.-_project"},
		{"test/directory", "test_directory"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := slugify(tt.input)
			if got != tt.want {
				t.Errorf("slugify(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashPath(t *testing.T) {
	for _, input := range []string{"/path/to/project", "/another/path", ""} {
		got := hashPath(input)
		if len(got) != 8 {
			t.Errorf("hashPath(%q) length: got %d, want 8", input, len(got))
		}
		if got != hashPath(input) {
			t.Errorf("hashPath(%q) not deterministic", input)
		}
		if input != "" && got == hashPath(input+"x") {
			t.Errorf("hashPath(%q) collides with %q", input, input+"x")
		}
	}
}

func TestProjectSlug(t *testing.T) {
	slug := projectSlug("/my/project")
	if !strings.HasPrefix(slug, "project-") {
		t.Errorf("projectSlug: got %q, want project-<hash>", slug)
	}
	parts := strings.Split(slug, "-")
	if hash := parts[len(parts)-1]; len(hash) != 8 {
		t.Errorf("expected 8-char hash, got %s", hash)
	}
}

func TestResolveProjectRoot(t *testing.T) {
	workDir := t.TempDir()
	if got := resolveProjectRoot(workDir); got != workDir {
		// Temp dirs are never inside a git checkout here, but a symlinked
		// TMPDIR can make git report the resolved path.
		if resolved, err := filepath.EvalSymlinks(workDir); err != nil || got != resolved {
			t.Errorf("resolveProjectRoot: got %s, want %s", got, workDir)
		}
	}
	if got := resolveProjectRoot(""); got != "." {
		t.Errorf("resolveProjectRoot(\"\"): got %s, want .", got)
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTail(t *testing.T) {
	t.Run("whole file when n=0", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), JournalFile)
		content := "line1\nline2\nline3\n"
		if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, logFile, 0, false); err != nil {
			t.Fatalf("Tail: %v", err)
		}
		if buf.String() != content {
			t.Errorf("Tail: got %q, want %q", buf.String(), content)
		}
	})

	t.Run("last lines of a long file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), JournalFile)
		var b strings.Builder
		for i := 0; i < 200; i++ {
			b.WriteString(strings.Repeat("x", 150))
			b.WriteString("\n")
		}
		b.WriteString("last\n")
		if err := os.WriteFile(logFile, []byte(b.String()), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, logFile, 2, false); err != nil {
			t.Fatalf("Tail: %v", err)
		}
		want := strings.Repeat("x", 150) + "\nlast\n"
		if got := buf.String(); got != want {
			t.Errorf("Tail: got %q, want %q", got, want)
		}
	})

	t.Run("more lines requested than present", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), JournalFile)
		content := "a\nb\n"
		if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, logFile, 5, false); err != nil {
			t.Fatalf("Tail: %v", err)
		}
		if buf.String() != content {
			t.Errorf("Tail: got %q, want %q", buf.String(), content)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, filepath.Join(t.TempDir(), "none"), 0, false); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("follow until cancelled", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping follow test on Windows due to file locking issues")
		}
		orig := followInterval
		followInterval = 10 * time.Millisecond
		defer func() { followInterval = orig }()

		logFile := filepath.Join(t.TempDir(), JournalFile)
		if err := os.WriteFile(logFile, []byte("initial\n"), 0644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		var buf syncBuffer
		done := make(chan error, 1)
		go func() {
			done <- Tail(ctx, &buf, logFile, 0, true)
		}()

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.WriteString("appended\n"); err != nil {
			t.Fatal(err)
		}
		f.Close()

		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(buf.String(), "appended") && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("Tail: %v", err)
		}

		got := buf.String()
		if !strings.Contains(got, "initial") || !strings.Contains(got, "appended") {
			t.Errorf("follow output: got %q", got)
		}
	})
}
