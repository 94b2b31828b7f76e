package config

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileName is the fixed name of the config file.
const FileName = ".n2tconfig"

// KeySimulatorExecutable holds the absolute path of the external hardware
// simulator binary.
const KeySimulatorExecutable = "hardware_simulator_executable"

// ErrKeyNotFound is returned by Get for keys absent from the store.
var ErrKeyNotFound = errors.New("key not found")

// Store is a flat key=value config file loaded fully into memory.
// Mutations via Set are in-memory only until Flush rewrites the file.
// Single-process, no locking: concurrent external edits are not detected.
type Store struct {
	path string
	data map[string]string
}

// Open loads the config file at path, creating it empty if it does not
// exist. The parent directory must already exist.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("config directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config directory %s: not a directory", dir)
	}

	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := os.WriteFile(s.path, nil, 0o644); werr != nil {
				return fmt.Errorf("creating config file: %w", werr)
			}
			s.data = make(map[string]string)
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	data := make(map[string]string)
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Values may contain '='; only the first one separates the key.
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: malformed line, expected key=value", s.path, i+1)
		}
		data[key] = value
	}
	s.data = data
	return nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key, or an error wrapping
// ErrKeyNotFound.
func (s *Store) Get(key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrKeyNotFound)
	}
	return v, nil
}

// Set upserts key in memory. Call Flush to persist.
func (s *Store) Set(key, value string) {
	s.data[key] = value
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) bool {
	_, ok := s.data[key]
	return ok
}

// All returns a restartable iterator over all pairs in arbitrary order.
func (s *Store) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for k, v := range s.data {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Flush rewrites the backing file with the full mapping, one key=value per
// line, then reloads it from disk.
func (s *Store) Flush() error {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(s.data)) {
		fmt.Fprintf(&b, "%s=%s\n", k, s.data[k])
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return s.load()
}
