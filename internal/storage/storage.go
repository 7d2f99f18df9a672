package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrbooshehri/folio/internal/config"
)

// ErrNotFound is returned when a snapshot, index or record does not exist
var ErrNotFound = errors.New("not found")

// Storage handles file-based persistence under the data directory
type Storage struct {
	dataDir   string
	indexFile string
}

var globalStorage *Storage

// Init initializes the global storage instance from configuration
func Init() error {
	cfg := config.Get()
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	globalStorage = New(cfg.DataDir, cfg.IndexFile)
	return nil
}

// Get returns the global storage instance
func Get() *Storage {
	if globalStorage == nil {
		if err := Init(); err != nil {
			panic(err)
		}
	}
	return globalStorage
}

// New creates a Storage rooted at dataDir
func New(dataDir, indexFile string) *Storage {
	return &Storage{dataDir: dataDir, indexFile: indexFile}
}

// DataDir returns the directory project files are read from
func (s *Storage) DataDir() string {
	return s.dataDir
}

// IndexFile returns the search index path
func (s *Storage) IndexFile() string {
	return s.indexFile
}

// IsDataFile reports whether path has a supported project file extension
func IsDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ListDataFiles returns all project files in the data directory, sorted
func (s *Storage) ListDataFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsDataFile(e.Name()) {
			continue
		}
		path := filepath.Join(s.dataDir, e.Name())
		if path == s.indexFile {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile decodes a JSON or YAML file into v, chosen by extension
func ReadFile(path string, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readYAMLFile(path, v)
	default:
		return readJSONFile(path, v)
	}
}

// WriteFile encodes v as JSON or YAML, chosen by extension, atomically
func WriteFile(path string, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return writeYAMLFile(path, v)
	default:
		return writeJSONFile(path, v)
	}
}

// readJSONFile reads and unmarshals a JSON file
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

// writeJSONFile marshals and writes a JSON file atomically
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

func readYAMLFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, v)
}

func writeYAMLFile(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// writeAtomic writes to a temp file and renames it over path
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Cleanup on failure
		return err
	}

	return nil
}
