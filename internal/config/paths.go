package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands a leading ~ and environment variables in p.
// On Windows %VAR% references are expanded as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandWindowsEnv(expanded)
	}

	if expanded != "~" && !strings.HasPrefix(expanded, "~/") && !strings.HasPrefix(expanded, `~\`) {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	return filepath.Join(home, expanded[2:])
}

func expandWindowsEnv(p string) string {
	parts := strings.Split(p, "%")
	if len(parts) < 3 {
		return p
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for i := 1; i < len(parts); i++ {
		// Odd segments sit between a pair of % signs.
		if i%2 == 1 && i < len(parts)-1 {
			if val, ok := os.LookupEnv(parts[i]); ok && parts[i] != "" {
				b.WriteString(val)
				continue
			}
			b.WriteString("%" + parts[i] + "%")
			continue
		}
		if i%2 == 1 {
			b.WriteString("%")
		}
		b.WriteString(parts[i])
	}
	return b.String()
}
