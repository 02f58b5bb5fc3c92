package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SchemaVersion is the task file format version written by Save.
const SchemaVersion = 1

var (
	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTitle is returned when adding a task with a blank title.
	ErrEmptyTitle = errors.New("task title is empty")
)

// Status is either StatusTodo or StatusDone.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Task is one entry of the task list.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Done reports whether the task is completed.
func (t *Task) Done() bool {
	return t.Status == StatusDone
}

// File is the on-disk task list.
type File struct {
	SchemaVersion int    `json:"schema_version"`
	Tasks         []Task `json:"tasks"`
}

// New returns an empty task file.
func New() *File {
	return &File{SchemaVersion: SchemaVersion, Tasks: []Task{}}
}

// Load reads a task file. A missing file yields an empty task list.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}

	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse todo file %s: %w", path, err)
	}
	if f.Tasks == nil {
		f.Tasks = []Task{}
	}
	return f, nil
}

// Save writes the file as indented JSON with a trailing newline, creating
// parent directories as needed.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode todo file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}

// idNumber returns the number embedded after an ID's non-digit prefix
// ("T007" is 7), or -1 when there is none.
func idNumber(id string) int {
	digits := strings.TrimLeftFunc(id, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return -1
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return n
}

// CompareIDs orders IDs by their numeric part so that T2 sorts before T10.
// IDs without a number compare lexically.
func CompareIDs(a, b string) bool {
	na, nb := idNumber(a), idNumber(b)
	if na < 0 || nb < 0 {
		return a < b
	}
	return na < nb
}

// GetTask returns the task with the given ID, or nil.
func (f *File) GetTask(id string) *Task {
	if i := f.index(id); i >= 0 {
		return &f.Tasks[i]
	}
	return nil
}

func (f *File) index(id string) int {
	return slices.IndexFunc(f.Tasks, func(t Task) bool { return t.ID == id })
}

// NextID returns the ID the next added task receives.
func (f *File) NextID() string {
	highest := 0
	for _, t := range f.Tasks {
		highest = max(highest, idNumber(t.ID))
	}
	return fmt.Sprintf("T%03d", highest+1)
}

// Add appends a new todo task with the given title.
func (f *File) Add(title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	now := time.Now().UTC()
	task := Task{ID: f.NextID(), Title: title, Status: StatusTodo, CreatedAt: &now, UpdatedAt: &now}
	f.Tasks = append(f.Tasks, task)
	return task, nil
}

// Toggle flips a task between todo and done and returns the updated task.
func (f *File) Toggle(id string) (Task, error) {
	task := f.GetTask(id)
	if task == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	now := time.Now().UTC()
	task.UpdatedAt = &now
	if task.Done() {
		task.Status, task.CompletedAt = StatusTodo, nil
	} else {
		task.Status, task.CompletedAt = StatusDone, &now
	}
	return *task, nil
}

// Delete removes a task and returns it.
func (f *File) Delete(id string) (Task, error) {
	i := f.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	removed := f.Tasks[i]
	f.Tasks = slices.Delete(f.Tasks, i, i+1)
	return removed, nil
}

// Counts returns the number of tasks and how many are done.
func (f *File) Counts() (total, done int) {
	for i := range f.Tasks {
		if f.Tasks[i].Done() {
			done++
		}
	}
	return len(f.Tasks), done
}

// Sorted returns a copy of the tasks in numeric-aware ID order.
func (f *File) Sorted() []Task {
	sorted := append([]Task{}, f.Tasks...)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		switch {
		case CompareIDs(a.ID, b.ID):
			return -1
		case CompareIDs(b.ID, a.ID):
			return 1
		}
		return 0
	})
	return sorted
}
