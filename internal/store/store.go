package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// New returns an empty store stamped with the current time.
func New() *Store {
	return &Store{
		Records:   []Record{},
		Errors:    []string{},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Load reads the store document at path. A missing file returns (nil, nil);
// the caller initializes a fresh store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return &s, nil
}

// Find returns the record keyed by originalFile, or nil.
func (s *Store) Find(originalFile string) *Record {
	for i := range s.Records {
		if s.Records[i].OriginalFile == originalFile {
			return &s.Records[i]
		}
	}
	return nil
}

// Merge folds one run's records and counters into the store. Records sharing
// an original-file key replace the existing entry in place, preserving its
// position; new keys append. Statistics are summed, never overwritten.
func (s *Store) Merge(records []Record, stats Stats) {
	for _, record := range records {
		if existing := s.Find(record.OriginalFile); existing != nil {
			*existing = record
			continue
		}
		s.Records = append(s.Records, record)
	}
	s.Stats.Add(stats)
	s.Timestamp = time.Now().Format(time.RFC3339)
}

// Save rewrites the store document as a whole and regenerates the flat-text
// export next to it.
func Save(s *Store, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}

	return ExportText(s, textPath(path))
}

// textPath swaps the store file's extension for .txt.
func textPath(path string) string {
	if idx := strings.LastIndex(path, "."); idx > strings.LastIndexAny(path, `/\`) {
		return path[:idx] + ".txt"
	}
	return path + ".txt"
}
