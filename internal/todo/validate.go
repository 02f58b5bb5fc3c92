package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "todo.schema.json"

// ValidationError locates a problem in the task file. Path uses
// "tasks[0].title" notation and is empty for file-level errors.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationOptions selects how a File is validated.
type ValidationOptions struct {
	// SchemaPath overrides the embedded JSON Schema.
	SchemaPath string
	// Minimal skips JSON Schema validation entirely.
	Minimal bool
}

// ValidationResult collects every problem found. UsedSchema is false when
// only the built-in structural checks ran.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

// Err joins the validation errors, or returns nil for a valid file.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

func (r *ValidationResult) fail(path string, format string, args ...any) {
	r.add(&ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
}

func (r *ValidationResult) add(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

func (r *ValidationResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Validate checks f against the JSON Schema. When the schema cannot be
// compiled it warns and falls back to structural checks.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if opts.Minimal {
		f.checkStructure(result)
		return result
	}

	schema, err := compileSchema(opts.SchemaPath)
	if err != nil {
		result.warn(err.Error())
		result.warn("JSON Schema validation not available, using minimal checks")
		f.checkStructure(result)
		return result
	}
	result.UsedSchema = true
	f.checkSchema(schema, result)
	return result
}

func (f *File) checkStructure(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.fail("schema_version", "expected %d, got %d", SchemaVersion, f.SchemaVersion)
	}
	if f.Tasks == nil {
		result.fail("tasks", "missing required field")
		return
	}

	seen := make(map[string]int, len(f.Tasks))
	for i, task := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		switch {
		case task.ID == "":
			result.fail(path+".id", "missing required field")
			continue
		case strings.TrimSpace(task.Title) == "":
			result.fail(path+".title", "missing required field")
		case task.Status != StatusTodo && task.Status != StatusDone:
			result.fail(path+".status", "invalid status %q, must be one of: todo, done", task.Status)
		}
		if first, dup := seen[task.ID]; dup {
			result.fail(path+".id", "duplicate id %q (first at tasks[%d])", task.ID, first)
			continue
		}
		seen[task.ID] = i
	}
}

func (f *File) checkSchema(schema *jsonschema.Schema, result *ValidationResult) {
	// The validator wants generic JSON values, not the typed struct.
	data, err := json.Marshal(f)
	if err != nil {
		result.add(fmt.Errorf("encode for validation: %w", err))
		return
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.add(fmt.Errorf("decode for validation: %w", err))
		return
	}

	err = schema.Validate(doc)
	var ve *jsonschema.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		for _, leaf := range leafErrors(ve, nil) {
			result.fail(jsonPointerToPath(leaf.InstanceLocation), "%s", leaf.Message)
		}
	default:
		result.add(err)
	}
}

// leafErrors flattens the cause tree down to the errors that carry the
// actual messages.
func leafErrors(ve *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(acc, ve)
	}
	for _, c := range ve.Causes {
		acc = leafErrors(c, acc)
	}
	return acc
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat = true

	if schemaPath == "" {
		if err := c.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Errorf("load embedded schema: %w", err)
		}
		return c.Compile(embeddedSchemaURL)
	}

	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("schema path %s: %w", schemaPath, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("schema file not found: %s", abs)
		}
		return nil, fmt.Errorf("stat schema file: %w", err)
	}
	schema, err := c.Compile(abs)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", abs, err)
	}
	return schema, nil
}

// jsonPointerToPath converts "/tasks/0/title" to "tasks[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	var b strings.Builder
	for _, token := range strings.Split(ptr, "/") {
		if token == "" {
			continue
		}
		if _, err := strconv.Atoi(token); err == nil {
			b.WriteString("[" + token + "]")
			continue
		}
		token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}
