package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FindLogDir returns <baseDir>/<project>-<hash>, where project is the
// repository root containing workDir (or workDir itself outside a
// repository). A relative baseDir is taken relative to workDir.
func FindLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", errors.New("log base dir is empty")
	}
	if workDir == "" {
		workDir = "."
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(workDir, baseDir)
	}
	return filepath.Join(filepath.Clean(baseDir), projectSlug(resolveProjectRoot(workDir))), nil
}

// FindJournal returns the journal path for workDir without creating it.
func FindJournal(baseDir, workDir string) (string, error) {
	dir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, JournalFile), nil
}

// resolveProjectRoot walks up from workDir to the nearest directory holding
// a .git entry. Worktrees keep a .git file, so any entry type counts.
func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	for dir := workDir; ; {
		if _, err := os.Lstat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return workDir
		}
		dir = parent
	}
}

func projectSlug(root string) string {
	return slugify(filepath.Base(root)) + "-" + hashPath(root)
}

var slugInvalid = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// slugify keeps a directory name safe to use as a path element.
func slugify(name string) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(name, "_"), "_")
	if slug == "" {
		return "project"
	}
	return slug
}

func hashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:4])
}
