// Package todo owns the task list: loading and saving todo.json, adding,
// toggling and deleting tasks, and validating the file.
//
// A task file looks like:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"id": "T001", "title": "Water the plants", "status": "done",
//	     "created_at": "2024-01-01T00:00:00Z", "completed_at": "2024-01-02T00:00:00Z"}
//	  ]
//	}
//
// IDs are assigned as T001, T002, ... and never reused while a higher ID
// exists. Every done task is worth one puzzle reveal.
//
// Validate checks the file against the embedded schema.json, or a schema
// named by ValidationOptions.SchemaPath. If that schema cannot be compiled
// it falls back to structural checks and says so in the warnings.
package todo
