package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; variables already present in the process
// environment are never overwritten.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env and .env.local from dir when they exist and returns
// the files that were read.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, err
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
