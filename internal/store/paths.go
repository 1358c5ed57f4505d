package store

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveBasePath resolves the configured data directory. Empty input falls
// back to ~/.warden/data.
func ResolveBasePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".warden", "data"), nil
	}
	return expand(trimmed)
}

// expand resolves environment variables and "~/" home shortcuts.
func expand(path string) (string, error) {
	expanded := os.ExpandEnv(path)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if expanded == "~" {
			expanded = home
		} else {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~/"))
		}
	}
	return filepath.Clean(expanded), nil
}

func collectionPath(basePath, collection string) string {
	return filepath.Join(basePath, collection+".json")
}
