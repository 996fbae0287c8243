package store

import (
	"github.com/chintans1/mint-lunchmoney/internal/models"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	Accounts   *models.AccountMapping
	Categories *models.CategoryMapping

	// Error flags for testing error conditions
	ReadAccountError  error
	SaveAccountError  error
	ReadCategoryError error
	SaveCategoryError error
}

// AccountMapping returns the in-memory account mapping, nil when unset.
func (m *MockStore) AccountMapping() (*models.AccountMapping, error) {
	if m.ReadAccountError != nil {
		return nil, m.ReadAccountError
	}
	return m.Accounts, nil
}

// SaveAccountMapping stores the account mapping in memory.
func (m *MockStore) SaveAccountMapping(mapping *models.AccountMapping) error {
	if m.SaveAccountError != nil {
		return m.SaveAccountError
	}
	m.Accounts = mapping
	return nil
}

// HasAccountMapping reports whether an account mapping is present.
func (m *MockStore) HasAccountMapping() (string, bool) {
	return "account mapping (in-memory)", m.Accounts != nil
}

// CategoryMapping returns the in-memory category mapping, nil when unset.
func (m *MockStore) CategoryMapping() (*models.CategoryMapping, error) {
	if m.ReadCategoryError != nil {
		return nil, m.ReadCategoryError
	}
	return m.Categories, nil
}

// SaveCategoryMapping stores the category mapping in memory.
func (m *MockStore) SaveCategoryMapping(mapping *models.CategoryMapping) error {
	if m.SaveCategoryError != nil {
		return m.SaveCategoryError
	}
	m.Categories = mapping
	return nil
}

// HasCategoryMapping reports whether a category mapping is present.
func (m *MockStore) HasCategoryMapping() (string, bool) {
	return "category mapping (in-memory)", m.Categories != nil
}
