package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	snapshotFile  = "index.snapshot"
	stopwordsFile = "stopwords.txt"
)

// ErrReservedName means an upload collides with one of the store's own files.
var ErrReservedName = errors.New("document name is reserved")

// DocumentStorage keeps the corpus texts and the index snapshot on the local
// filesystem. Document names are flattened to their base name so an uploaded
// path can never escape the corpus directory.
type DocumentStorage struct {
	basePath string
}

func isReservedName(name string) bool {
	name = strings.ToLower(name)
	return name == snapshotFile || name == stopwordsFile
}

// NewDocumentStorage creates a new document storage instance
func NewDocumentStorage(basePath string) (*DocumentStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &DocumentStorage{
		basePath: basePath,
	}, nil
}

// SaveDocument writes a corpus text. Names without a .txt extension get one.
func (s *DocumentStorage) SaveDocument(name, content string) (string, error) {
	name = filepath.Base(name)
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}
	if isReservedName(name) {
		return "", fmt.Errorf("%w: %s", ErrReservedName, name)
	}

	path := filepath.Join(s.basePath, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return name, nil
}

// ReadDocument returns the raw text of a stored document.
func (s *DocumentStorage) ReadDocument(name string) (string, error) {
	path := filepath.Join(s.basePath, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", name, err)
	}
	return string(data), nil
}

// ListDocuments returns the names of all stored .txt documents, sorted.
// The stopword list and the index snapshot share the directory and are
// never part of the corpus.
func (s *DocumentStorage) ListDocuments() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || isReservedName(entry.Name()) {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteDocument deletes a stored document
func (s *DocumentStorage) DeleteDocument(name string) error {
	path := filepath.Join(s.basePath, filepath.Base(name))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// SnapshotPath returns where the index snapshot lives on disk.
func (s *DocumentStorage) SnapshotPath() string {
	return filepath.Join(s.basePath, snapshotFile)
}

// StopwordsPath returns where the stopword list lives on disk.
func (s *DocumentStorage) StopwordsPath() string {
	return filepath.Join(s.basePath, stopwordsFile)
}

// SaveStopwords persists the stopword list, one word per line.
func (s *DocumentStorage) SaveStopwords(words []string) error {
	content := strings.Join(words, "\n")
	if len(words) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(s.StopwordsPath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write stopwords: %w", err)
	}
	return nil
}
