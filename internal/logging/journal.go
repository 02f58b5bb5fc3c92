package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JournalFile is the file name of the activity journal inside the project log dir.
const JournalFile = "journal.jsonl"

// Journal event types.
const (
	EventTaskAdded       = "task_added"
	EventTaskCompleted   = "task_completed"
	EventTaskReopened    = "task_reopened"
	EventTaskDeleted     = "task_deleted"
	EventPieceRevealed   = "piece_revealed"
	EventPuzzleGenerated = "puzzle_generated"
	EventPuzzleCompleted = "puzzle_completed"
	EventPuzzleReset     = "puzzle_reset"
	EventCityChanged     = "city_changed"
	EventHookFailed      = "hook_failed"
)

// Event is one line of the journal.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Type      string    `json:"type"`
	TaskID    string    `json:"task_id,omitempty"`
	PieceID   *int      `json:"piece_id,omitempty"`
	PuzzleID  string    `json:"puzzle_id,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Piece returns a pointer suitable for Event.PieceID.
func Piece(id int) *int {
	return &id
}

// Journal appends events to a per-project JSONL file.
// A nil *Journal is valid and records nothing.
type Journal struct {
	Dir  string
	Path string

	mu   sync.Mutex
	file *os.File
}

// OpenJournal opens the journal of the project containing workDir, creating
// the log directory and file as needed.
func OpenJournal(baseDir, workDir string) (*Journal, error) {
	dir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	j := &Journal{Dir: dir, Path: filepath.Join(dir, JournalFile)}
	if j.file, err = os.OpenFile(j.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// Record appends one event. A zero timestamp is set to now.
func (j *Journal) Record(event Event) error {
	if j == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode journal event: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return fmt.Errorf("journal closed")
	}
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// ReadEvents parses a journal file. Malformed lines are skipped and a
// missing file yields no events.
func ReadEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var events []Event
	lines := bufio.NewScanner(file)
	for lines.Scan() {
		var ev Event
		if line := bytes.TrimSpace(lines.Bytes()); len(line) > 0 && json.Unmarshal(line, &ev) == nil {
			events = append(events, ev)
		}
	}
	if err := lines.Err(); err != nil {
		return events, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}
