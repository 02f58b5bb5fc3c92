package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nibzard/todopuzzle/internal/board"
	"github.com/nibzard/todopuzzle/internal/config"
	"github.com/nibzard/todopuzzle/internal/logging"
	"github.com/nibzard/todopuzzle/internal/todo"
)

// doctorCommand checks that every file and command todopuzzle touches is
// usable. It never modifies anything.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todopuzzle doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := noArgs(fs, args); err != nil {
		return err
	}
	w := stdout

	fmt.Fprintln(w, "todopuzzle doctor")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	allOK := true

	// Project root
	fmt.Fprintf(w, "Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Schema file
	if cfg.SchemaFile != "" {
		fmt.Fprintf(w, "Schema file: %s\n", cfg.SchemaFile)
		if exists, _ := checkFile(w, cfg.SchemaFile, "  ❌ Not found"); !exists {
			allOK = false
		}
		fmt.Fprintln(w)
	}

	// Task file
	fmt.Fprintf(w, "Todo file: %s\n", cfg.TodoFile)
	completed := 0
	exists, ok := checkFile(w, cfg.TodoFile, "  ⚠️  Not found (created on first add)")
	if !ok {
		allOK = false
	}
	if exists {
		todoFile, err := todo.Load(cfg.TodoFile)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
			allOK = false
		} else {
			result := todoFile.Validate(todo.ValidationOptions{SchemaPath: cfg.SchemaFile})
			for _, warning := range result.Warnings {
				fmt.Fprintf(w, "  ⚠️  %s\n", warning)
			}
			if result.Valid {
				fmt.Fprintln(w, "  ✅ Valid")
			} else {
				fmt.Fprintln(w, "  ❌ Validation failed:")
				for _, e := range result.Errors {
					fmt.Fprintf(w, "     - %v\n", e)
				}
				allOK = false
			}
			total, done := todoFile.Counts()
			completed = done
			fmt.Fprintf(w, "  Tasks: %d (%d done)\n", total, done)
			if *verbose {
				for _, t := range todoFile.Sorted() {
					fmt.Fprintf(w, "    - [%s] %s: %s\n", t.Status, t.ID, t.Title)
				}
			}
		}
	}
	fmt.Fprintln(w)

	// Board state
	fmt.Fprintf(w, "Board state: %s\n", cfg.StateFile)
	exists, ok = checkFile(w, cfg.StateFile, "  ⚠️  Not found (created on first use)")
	if !ok {
		allOK = false
	}
	if exists {
		b, err := board.Load(cfg.StateFile)
		if err != nil {
			fmt.Fprintf(w, "  ❌ %v\n", err)
			allOK = false
		} else {
			revealed, total := b.Progress()
			fmt.Fprintf(w, "  ✅ Valid: %s, %d/%d revealed, %d %s\n",
				b.City, revealed, total, b.Credits, plural(b.Credits, "credit", "credits"))
			if b.Credits+revealed > completed {
				fmt.Fprintf(w, "  ⚠️  %d credits and reveals but only %d completed tasks (resynced on next use)\n",
					b.Credits+revealed, completed)
			}
		}
	}
	fmt.Fprintln(w)

	// Journal
	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if journal, err := logging.FindJournal(cfg.LogDir, cfg.ProjectRoot); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else if _, err := os.Stat(journal); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  No journal yet (created on first change)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintf(w, "  ✅ Journal: %s\n", journal)
	}
	fmt.Fprintln(w)

	// Hook
	fmt.Fprintln(w, "Completion hook:")
	if cfg.HookCommand == "" {
		fmt.Fprintln(w, "  ⚠️  Not configured")
	} else if !checkBinary(w, "hook", cfg.HookCommand, true) {
		allOK = false
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. todopuzzle may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkFile prints the state of path. exists is true for a regular file;
// ok is false when the path exists but cannot be used.
func checkFile(w io.Writer, path, missing string) (exists, ok bool) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, missing)
		return false, true
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false, false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false, false
	}
	fmt.Fprintln(w, "  ✅ OK")
	return true, true
}

// checkBinary prints whether binary resolves to an executable, either as a
// path or through PATH. Missing optional binaries only warn.
func checkBinary(w io.Writer, label, binary string, required bool) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	fail := func(format string, args ...any) bool {
		if required {
			fmt.Fprintf(w, "  ❌ "+format+"\n", args...)
			return false
		}
		fmt.Fprintf(w, "  ⚠️  "+format+"\n", args...)
		return true
	}

	if strings.TrimSpace(binary) == "" {
		return fail("Not configured")
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			return fail("Path is a directory")
		}
		if !isExecutablePath(binary, info) {
			return fail("Not executable")
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return fail("Not found: %v", err)
	}
	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return fail("Found in PATH but is a directory: %s", resolved)
		}
		if !isExecutablePath(resolved, info) {
			return fail("Found in PATH but not executable: %s", resolved)
		}
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}

func isExecutablePath(path string, info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return isWindowsExecutable(path)
	}
	return info.Mode().Perm()&0111 != 0
}

func isWindowsExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return windowsExecutableExts()[ext]
}

func windowsExecutableExts() map[string]bool {
	exts := map[string]bool{}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	for _, ext := range strings.Split(pathext, ";") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}
