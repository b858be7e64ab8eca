package tomato

import (
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" path element with home. Paths such as
// "~user/x" are returned unchanged.
func ExpandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return filepath.Join(home, p[2:])
	}
	return p
}

// AbsPath expands "~" and makes p absolute against dir. The result is cleaned.
func AbsPath(p, dir, home string) string {
	p = ExpandHome(p, home)
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return filepath.Clean(p)
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
