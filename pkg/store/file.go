package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/report"
)

// FileStore keeps each document as one JSON file named by its ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based document store. An empty baseDir defaults
// to ~/.config/hashheat/reports/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStore, "resolving home directory")
		}
		baseDir = filepath.Join(home, ".config", "hashheat", "reports")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "creating report directory")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(id uuid.UUID) string {
	return filepath.Join(s.baseDir, id.String()+".json")
}

func (s *FileStore) Save(ctx context.Context, doc *report.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStore, "encoding document %s", doc.ID)
	}
	if err := os.WriteFile(s.docPath(doc.ID), data, 0600); err != nil {
		return errors.Wrap(err, errors.ErrCodeStore, "writing document %s", doc.ID)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id uuid.UUID) (*report.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeReportNotFound, "no report %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "reading document %s", id)
	}

	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "parsing document %s", id)
	}
	return &doc, nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "reading report directory")
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var doc report.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			// Foreign file in the report directory, skip it.
			continue
		}
		summaries = append(summaries, Summary{
			ID:        doc.ID,
			Title:     doc.Title,
			Country:   doc.Country,
			CreatedAt: doc.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *FileStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.docPath(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeReportNotFound, "no report %s", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStore, "removing document %s", id)
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for report files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
