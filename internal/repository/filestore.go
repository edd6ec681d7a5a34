package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"todo-manager/internal/model"
)

// FileStore keeps the snapshot as a single versioned JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the snapshot file. A missing file is not an error: it means
// no snapshot has been written yet.
func (s *FileStore) Load(_ context.Context) (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	migrate(&doc)
	return &doc, nil
}

// Save writes the whole document, using a temp-file rename so a crash
// mid-write never leaves a truncated snapshot behind.
func (s *FileStore) Save(_ context.Context, doc *model.Document) error {
	doc.SchemaVersion = model.SchemaVersion

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir %q: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// migrate normalizes documents written by older versions. Version 1 is
// current, so today this only backfills nil maps.
func migrate(doc *model.Document) {
	if doc.Todos == nil {
		doc.Todos = make(map[string]*model.Todo)
	}
	if doc.Persons == nil {
		doc.Persons = make(map[string]*model.Person)
	}
	doc.SchemaVersion = model.SchemaVersion
}
