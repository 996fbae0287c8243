package models

// CategoryDescriptor describes the Lunch Money category a Mint category
// maps to. A bare rename is a descriptor with only Category set; the flag
// fields default to false and Tags to nil.
type CategoryDescriptor struct {
	Category          string   `json:"category"`
	Tags              []string `json:"tags,omitempty"`
	Income            bool     `json:"income"`
	ExcludeFromBudget bool     `json:"excludeFromBudget"`
	ExcludeFromTotals bool     `json:"excludeFromTotals"`
	CategoryGroup     string   `json:"categoryGroup,omitempty"`
}

// CategoryGroupDescriptor describes a Lunch Money category group to create
// before the leaf categories that reference it.
type CategoryGroupDescriptor struct {
	CategoryGroup     string `json:"categoryGroup"`
	Income            bool   `json:"income"`
	ExcludeFromBudget bool   `json:"excludeFromBudget"`
	ExcludeFromTotals bool   `json:"excludeFromTotals"`
}

// CategoryMapping is the persisted category mapping document.
// LunchMoneyOptions records the destination leaf categories that existed
// when the document was generated, as a reference for hand editing.
type CategoryMapping struct {
	Categories        map[string]CategoryDescriptor      `json:"categories"`
	CategoryGroups    map[string]CategoryGroupDescriptor `json:"categoryGroups"`
	LunchMoneyOptions []string                           `json:"lunchMoneyOptions"`
}

// NewCategoryMapping returns an empty mapping document with initialized maps.
func NewCategoryMapping() *CategoryMapping {
	return &CategoryMapping{
		Categories:     make(map[string]CategoryDescriptor),
		CategoryGroups: make(map[string]CategoryGroupDescriptor),
	}
}

// Resolve returns the descriptor for a Mint category, falling back to an
// identity mapping when the category has no explicit entry.
func (m *CategoryMapping) Resolve(mintCategory string) (CategoryDescriptor, bool) {
	if desc, ok := m.Categories[mintCategory]; ok {
		return desc, true
	}
	return CategoryDescriptor{Category: mintCategory}, false
}
