package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// percentVar matches a Windows %NAME% reference.
var percentVar = regexp.MustCompile(`%([^%\s]+)%`)

// expandPath expands environment variables and a leading ~ in p. On
// Windows, %NAME% references and ~\ are accepted as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = percentVar.ReplaceAllStringFunc(p, func(ref string) string {
			if val, ok := os.LookupEnv(ref[1 : len(ref)-1]); ok {
				return val
			}
			return ref
		})
	}
	return expandHome(p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// resolve anchors a relative path at root. Empty and absolute paths are
// returned unchanged.
func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
