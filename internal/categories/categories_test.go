package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/chintans1/mint-lunchmoney/internal/lunchmoney"
	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"
	"github.com/chintans1/mint-lunchmoney/internal/models"
	"github.com/chintans1/mint-lunchmoney/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCategoryClient struct {
	catalog []lunchmoney.Category

	createdCategories []lunchmoney.CategoryRequest
	createdGroups     []lunchmoney.CategoryGroupRequest
	creationOrder     []string
	nextID            int64
}

func (m *mockCategoryClient) Categories(ctx context.Context) ([]lunchmoney.Category, error) {
	return m.catalog, nil
}

func (m *mockCategoryClient) CreateCategory(ctx context.Context, req lunchmoney.CategoryRequest) (int64, error) {
	m.createdCategories = append(m.createdCategories, req)
	m.creationOrder = append(m.creationOrder, "category:"+req.Name)
	m.nextID++
	return m.nextID, nil
}

func (m *mockCategoryClient) CreateCategoryGroup(ctx context.Context, req lunchmoney.CategoryGroupRequest) (int64, error) {
	m.createdGroups = append(m.createdGroups, req)
	m.creationOrder = append(m.creationOrder, "group:"+req.Name)
	m.nextID++
	return m.nextID, nil
}

func categoryRecord(category string) *models.TransactionRecord {
	return &models.TransactionRecord{Category: category}
}

func leaf(id int64, name string) lunchmoney.Category {
	return lunchmoney.Category{ID: id, Name: name}
}

func group(id int64, name string) lunchmoney.Category {
	return lunchmoney.Category{ID: id, Name: name, IsGroup: true}
}

func TestGenerateMappingRefusesExistingDocument(t *testing.T) {
	st := &store.MockStore{Categories: models.NewCategoryMapping()}

	_, err := GenerateMapping(context.Background(), nil, &mockCategoryClient{}, st, nil)
	require.Error(t, err)

	var exists *migrateerror.MappingExistsError
	assert.True(t, errors.As(err, &exists))
}

func TestGenerateMappingSuggestsBestMatch(t *testing.T) {
	client := &mockCategoryClient{catalog: []lunchmoney.Category{
		leaf(1, "Food & Drink"),
		leaf(2, "Business Expenses"),
		leaf(3, "Books"),
		group(4, "Spending"),
	}}
	records := []*models.TransactionRecord{
		categoryRecord("Books"),             // exact match, no entry needed
		categoryRecord("Business Expense"),  // fuzzy match
		categoryRecord("Food and Beverage"), // fuzzy match
	}
	st := &store.MockStore{}

	mapping, err := GenerateMapping(context.Background(), records, client, st, nil)
	require.NoError(t, err)

	assert.NotContains(t, mapping.Categories, "Books")
	assert.Equal(t, "Business Expenses", mapping.Categories["Business Expense"].Category)
	assert.Equal(t, "Food & Drink", mapping.Categories["Food and Beverage"].Category)

	// only leaves end up in the options reference, never groups
	assert.Equal(t, []string{"Food & Drink", "Business Expenses", "Books"}, mapping.LunchMoneyOptions)
	assert.NotNil(t, st.Categories, "generated document must be persisted")
}

func TestGenerateMappingEmptyCatalogDefaultsToSourceName(t *testing.T) {
	records := []*models.TransactionRecord{categoryRecord("Groceries")}

	mapping, err := GenerateMapping(context.Background(), records, &mockCategoryClient{}, &store.MockStore{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", mapping.Categories["Groceries"].Category)
}

func TestResolveAppliesMappingAndDefaults(t *testing.T) {
	mapping := models.NewCategoryMapping()
	mapping.Categories["Books"] = models.CategoryDescriptor{Category: "Reading"}
	mapping.Categories["Gas"] = models.CategoryDescriptor{Category: "Transport", Tags: []string{"car"}}

	records := []*models.TransactionRecord{
		categoryRecord("Books"),
		categoryRecord("Gas"),
	}
	require.NoError(t, Resolve(records, mapping, nil))

	assert.Equal(t, "Reading", records[0].LunchMoneyCategoryName)
	assert.Equal(t, models.Tags{"uncategorized"}, records[0].LunchMoneyTags)
	assert.Contains(t, records[0].Notes, "Original Mint category: Books")

	assert.Equal(t, "Transport", records[1].LunchMoneyCategoryName)
	assert.Equal(t, models.Tags{"car"}, records[1].LunchMoneyTags)
}

func TestResolveIdentityFallback(t *testing.T) {
	records := []*models.TransactionRecord{categoryRecord("Groceries")}

	require.NoError(t, Resolve(records, models.NewCategoryMapping(), []string{"Groceries"}))

	assert.Equal(t, "Groceries", records[0].LunchMoneyCategoryName)
	assert.Empty(t, records[0].LunchMoneyTags)
	assert.Empty(t, records[0].Notes, "identity fallback adds no provenance note")
}

func TestResolveUnmappedCategoriesAreFatal(t *testing.T) {
	mapping := models.NewCategoryMapping()
	mapping.Categories["Books"] = models.CategoryDescriptor{Category: "Reading"}

	records := []*models.TransactionRecord{
		categoryRecord("Books"),
		categoryRecord("Mystery Spend"),
	}

	err := Resolve(records, mapping, []string{"Groceries"})
	require.Error(t, err)

	var unmapped *migrateerror.UnmappedCategoriesError
	require.True(t, errors.As(err, &unmapped))
	assert.Equal(t, []string{"Mystery Spend"}, unmapped.Categories)
}

func TestResolveTreatsUncategorizedAsCovered(t *testing.T) {
	records := []*models.TransactionRecord{categoryRecord("Uncategorized")}

	require.NoError(t, Resolve(records, models.NewCategoryMapping(), nil))
	assert.Equal(t, "Uncategorized", records[0].LunchMoneyCategoryName)
}

func TestReconcileGroupConflicts(t *testing.T) {
	tests := []struct {
		name      string
		effective []string
		existing  []string
		pending   []string
		conflicts []string
	}{
		{"no overlap", []string{"Books"}, []string{"Spending"}, nil, nil},
		{"existing group collides", []string{"Income", "Books"}, []string{"Income"}, nil, []string{"Income"}},
		{"pending group collides", []string{"Income"}, nil, []string{"Income"}, []string{"Income"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ReconcileGroupConflicts(tc.effective, tc.existing, tc.pending)

			if tc.conflicts == nil {
				assert.NoError(t, err)
				return
			}
			var conflict *migrateerror.GroupConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tc.conflicts, conflict.Names)
		})
	}
}

func TestCreateRemoteGroupsBeforeLeaves(t *testing.T) {
	mapping := models.NewCategoryMapping()
	mapping.Categories["Books"] = models.CategoryDescriptor{Category: "Reading", CategoryGroup: "Leisure"}
	mapping.CategoryGroups["Leisure"] = models.CategoryGroupDescriptor{CategoryGroup: "Leisure"}

	records := []*models.TransactionRecord{categoryRecord("Books")}
	records[0].LunchMoneyCategoryName = "Reading"

	client := &mockCategoryClient{}
	require.NoError(t, CreateRemote(context.Background(), records, mapping, client))

	require.Equal(t, []string{"group:Leisure", "category:Reading"}, client.creationOrder)
	// the leaf carries the freshly assigned group id
	require.Len(t, client.createdCategories, 1)
	assert.Equal(t, int64(1), client.createdCategories[0].GroupID)
}

func TestCreateRemoteIsIdempotent(t *testing.T) {
	mapping := models.NewCategoryMapping()
	mapping.Categories["Books"] = models.CategoryDescriptor{Category: "Reading"}
	mapping.CategoryGroups["Leisure"] = models.CategoryGroupDescriptor{CategoryGroup: "Leisure"}

	records := []*models.TransactionRecord{
		categoryRecord("Books"),
		categoryRecord("Uncategorized"),
	}
	records[0].LunchMoneyCategoryName = "Reading"
	records[1].LunchMoneyCategoryName = "Uncategorized"

	client := &mockCategoryClient{catalog: []lunchmoney.Category{
		leaf(1, "Reading"),
		group(2, "Leisure"),
	}}
	require.NoError(t, CreateRemote(context.Background(), records, mapping, client))

	assert.Empty(t, client.createdCategories, "existing categories must not be recreated")
	assert.Empty(t, client.createdGroups, "existing groups must not be recreated")
}

func TestCreateRemoteAbortsOnGroupConflict(t *testing.T) {
	mapping := models.NewCategoryMapping()

	records := []*models.TransactionRecord{categoryRecord("Income")}
	records[0].LunchMoneyCategoryName = "Income"

	client := &mockCategoryClient{catalog: []lunchmoney.Category{group(1, "Income")}}
	err := CreateRemote(context.Background(), records, mapping, client)

	var conflict *migrateerror.GroupConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Empty(t, client.creationOrder, "nothing may be created after a namespace conflict")
}

func TestAddRemoteIDs(t *testing.T) {
	client := &mockCategoryClient{catalog: []lunchmoney.Category{
		leaf(11, "Reading"),
		group(12, "Leisure"),
	}}

	records := []*models.TransactionRecord{
		{LunchMoneyCategoryName: "Reading"},
		{LunchMoneyCategoryName: "Uncategorized"},
		{LunchMoneyCategoryName: "Leisure"},
	}
	require.NoError(t, AddRemoteIDs(context.Background(), records, client))

	assert.Equal(t, int64(11), records[0].LunchMoneyCategoryID)
	assert.Zero(t, records[1].LunchMoneyCategoryID)
	assert.Zero(t, records[2].LunchMoneyCategoryID, "group names never resolve to leaf ids")
}

func TestDiceScorerPrefersCloserNames(t *testing.T) {
	score := DiceScorer()
	assert.Greater(t,
		score("Business Expense", "Business Expenses"),
		score("Business Expense", "Food & Drink"))
}
