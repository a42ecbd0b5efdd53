package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveConfigPath locates an input file given on the command line. Absolute
// paths are returned cleaned. Relative paths are tried against rootDir and
// each of its parents, then against the working directory; the first regular
// file found wins. When nothing matches the path is returned made absolute so
// the caller's open reports a meaningful error.
func ResolveConfigPath(configPath, rootDir string) string {
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		return ""
	}

	if filepath.IsAbs(configPath) {
		return filepath.Clean(configPath)
	}

	candidates := make([]string, 0, 8)

	if root := strings.TrimSpace(rootDir); root != "" {
		base := filepath.Clean(root)
		for {
			candidates = append(candidates, filepath.Join(base, configPath))
			parent := filepath.Dir(base)
			if parent == base {
				break
			}
			base = parent
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, configPath))
	}

	candidates = append(candidates, configPath)

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		cleaned := filepath.Clean(candidate)
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		if info, err := os.Stat(cleaned); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(cleaned); err == nil {
				return abs
			}
			return cleaned
		}
	}

	if abs, err := filepath.Abs(configPath); err == nil {
		return abs
	}
	return configPath
}
