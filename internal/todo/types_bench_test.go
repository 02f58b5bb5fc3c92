package todo

import (
	"fmt"
	"path/filepath"
	"testing"
)

func benchmarkFile(n int) *File {
	f := New()
	for i := 0; i < n; i++ {
		task, _ := f.Add(fmt.Sprintf("Task number %d", i))
		if i%3 == 0 {
			_, _ = f.Toggle(task.ID)
		}
	}
	return f
}

func BenchmarkLoad(b *testing.B) {
	path := filepath.Join(b.TempDir(), "todo.json")
	if err := benchmarkFile(200).Save(path); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidateSchema(b *testing.B) {
	f := benchmarkFile(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r := f.Validate(ValidationOptions{}); !r.Valid {
			b.Fatal(r.Errors)
		}
	}
}

func BenchmarkValidateMinimal(b *testing.B) {
	f := benchmarkFile(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r := f.Validate(ValidationOptions{Minimal: true}); !r.Valid {
			b.Fatal(r.Errors)
		}
	}
}

func BenchmarkNextID(b *testing.B) {
	f := benchmarkFile(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.NextID()
	}
}
