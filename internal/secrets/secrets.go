// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// holds the active Gemini credential for the running process.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// GeminiKeyFile is the file under the secrets directory that holds the
// Gemini API key.
const GeminiKeyFile = "gemini-api-key"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve picks the startup credential: the first non-empty candidate
// (config, then environment fallbacks, in caller order), otherwise the
// gemini-api-key file from dir.
func Resolve(dir string, candidates ...string) (string, error) {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c, nil
		}
	}
	s, err := Load(dir)
	if err != nil {
		return "", err
	}
	return s[GeminiKeyFile], nil
}

// Store holds the active API key. Searches read it; the settings action
// replaces it.
type Store struct {
	mu  sync.RWMutex
	key string
}

// NewStore returns a store seeded with initial.
func NewStore(initial string) *Store {
	return &Store{key: strings.TrimSpace(initial)}
}

// APIKey returns the current key, or "" when none is configured.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Set replaces the key. Surrounding whitespace is dropped.
func (s *Store) Set(key string) {
	s.mu.Lock()
	s.key = strings.TrimSpace(key)
	s.mu.Unlock()
}

// Configured reports whether a key is present.
func (s *Store) Configured() bool {
	return s.APIKey() != ""
}
