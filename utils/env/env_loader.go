// Package env provides utilities for loading environment variables from .env files
package env

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Prefix is shared by every riskmesh environment variable.
const Prefix = "RISKMESH_"

// maxParentDirs bounds the upward search for a .env file.
const maxParentDirs = 5

var (
	loadOnce sync.Once
	loadedAt string
)

// LoadEnv loads the nearest .env file, searching the current directory and
// up to five parents. It only loads once per process and returns the path
// it loaded, or "" when none was found. Variables already set in the
// environment win over the file.
func LoadEnv() string {
	loadOnce.Do(func() {
		dir, err := os.Getwd()
		if err != nil {
			return
		}
		loadedAt = findAndLoad(dir)
	})
	return loadedAt
}

func findAndLoad(dir string) string {
	for i := 0; i <= maxParentDirs; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// LoadEnvWithPath loads environment variables from a specific .env file path
func LoadEnvWithPath(filePath string) error {
	return godotenv.Load(filePath)
}

// Name returns the prefixed, upper-cased variable name for key, e.g.
// "node-home" becomes RISKMESH_NODE_HOME.
func Name(key string) string {
	return Prefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Lookup returns the trimmed value of the prefixed variable for key.
func Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(Name(key))
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
