// Package store persists the account and category mapping documents, the
// durable bridge between reconciliation runs. Documents are pretty-printed
// JSON so users can review and edit them between runs.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/chintans1/mint-lunchmoney/internal/models"

	"github.com/sirupsen/logrus"
)

var log = config.Logger

// SetLogger allows setting a custom logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store is the persistence boundary for the two mapping documents. A nil
// document from a read means the document does not exist yet, which is a
// valid state that triggers the generation flow.
type Store interface {
	AccountMapping() (*models.AccountMapping, error)
	SaveAccountMapping(*models.AccountMapping) error
	// HasAccountMapping reports whether the document exists and where.
	HasAccountMapping() (string, bool)

	CategoryMapping() (*models.CategoryMapping, error)
	SaveCategoryMapping(*models.CategoryMapping) error
	HasCategoryMapping() (string, bool)
}

// FileStore persists mapping documents as JSON files at configured paths.
type FileStore struct {
	AccountPath  string
	CategoryPath string
}

// NewFileStore creates a store backed by the given file paths.
func NewFileStore(accountPath, categoryPath string) *FileStore {
	return &FileStore{
		AccountPath:  accountPath,
		CategoryPath: categoryPath,
	}
}

// AccountMapping reads the account mapping document, returning nil when
// the file does not exist.
func (s *FileStore) AccountMapping() (*models.AccountMapping, error) {
	var mapping models.AccountMapping
	ok, err := s.readJSON(s.AccountPath, &mapping)
	if err != nil || !ok {
		return nil, err
	}
	return &mapping, nil
}

// SaveAccountMapping writes the account mapping document.
func (s *FileStore) SaveAccountMapping(mapping *models.AccountMapping) error {
	return s.writeJSON(s.AccountPath, mapping)
}

// HasAccountMapping reports whether the account mapping file exists.
func (s *FileStore) HasAccountMapping() (string, bool) {
	return s.AccountPath, fileExists(s.AccountPath)
}

// CategoryMapping reads the category mapping document, returning nil when
// the file does not exist.
func (s *FileStore) CategoryMapping() (*models.CategoryMapping, error) {
	var mapping models.CategoryMapping
	ok, err := s.readJSON(s.CategoryPath, &mapping)
	if err != nil || !ok {
		return nil, err
	}
	if mapping.Categories == nil {
		mapping.Categories = make(map[string]models.CategoryDescriptor)
	}
	if mapping.CategoryGroups == nil {
		mapping.CategoryGroups = make(map[string]models.CategoryGroupDescriptor)
	}
	return &mapping, nil
}

// SaveCategoryMapping writes the category mapping document.
func (s *FileStore) SaveCategoryMapping(mapping *models.CategoryMapping) error {
	return s.writeJSON(s.CategoryPath, mapping)
}

// HasCategoryMapping reports whether the category mapping file exists.
func (s *FileStore) HasCategoryMapping() (string, bool) {
	return s.CategoryPath, fileExists(s.CategoryPath)
}

func (s *FileStore) readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("file", path).Debug("Mapping document not found")
			return false, nil
		}
		return false, fmt.Errorf("error reading mapping document %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("error parsing mapping document %s: %w", path, err)
	}
	return true, nil
}

func (s *FileStore) writeJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding mapping document: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("error writing mapping document %s: %w", path, err)
	}

	log.WithField("file", path).Info("Wrote mapping document")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
