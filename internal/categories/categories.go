// Package categories reconciles Mint categories against the Lunch Money
// category catalog: it suggests a mapping by fuzzy name matching, resolves
// records to their destination category, guards the category/group
// namespace, and creates missing categories remotely.
package categories

import (
	"context"
	"sort"
	"strings"

	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/chintans1/mint-lunchmoney/internal/lunchmoney"
	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"
	"github.com/chintans1/mint-lunchmoney/internal/models"
	"github.com/chintans1/mint-lunchmoney/internal/store"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/sirupsen/logrus"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// uncategorizedSentinel is the Mint category that maps to no Lunch Money
// category. It is treated as always present remotely and never created.
const uncategorizedSentinel = "Uncategorized"

// defaultTags mark transactions whose category came from the user mapping
// but carries no tags of its own.
var defaultTags = []string{"uncategorized"}

// Scorer rates the similarity of two category names; higher is better.
// The scoring function is a replaceable policy, not a contract.
type Scorer func(a, b string) float64

// DiceScorer is the default scorer, a bigram Sørensen–Dice coefficient.
func DiceScorer() Scorer {
	metric := metrics.NewSorensenDice()
	return func(a, b string) float64 {
		return strutil.Similarity(a, b, metric)
	}
}

// CategoryClient is the slice of the Lunch Money API this package needs.
type CategoryClient interface {
	Categories(ctx context.Context) ([]lunchmoney.Category, error)
	CreateCategory(ctx context.Context, req lunchmoney.CategoryRequest) (int64, error)
	CreateCategoryGroup(ctx context.Context, req lunchmoney.CategoryGroupRequest) (int64, error)
}

// GenerateMapping builds the category mapping document and persists it for
// user review. It refuses to run when a document already exists, to avoid
// silently discarding user edits. Exact matches with existing Lunch Money
// categories need no entry (the resolver's identity fallback covers them);
// every other Mint category gets the best fuzzy match as its suggestion,
// or itself when the remote catalog is empty.
func GenerateMapping(ctx context.Context, records []*models.TransactionRecord, client CategoryClient, st store.Store, score Scorer) (*models.CategoryMapping, error) {
	if path, exists := st.HasCategoryMapping(); exists {
		return nil, &migrateerror.MappingExistsError{Path: path}
	}
	if score == nil {
		score = DiceScorer()
	}

	catalog, err := client.Categories(ctx)
	if err != nil {
		return nil, err
	}
	leafNames := leafCategoryNames(catalog)

	mintCategories := uniqueMintCategories(records)

	exact, toMap := splitExactMatches(mintCategories, leafNames)
	if len(exact) > 0 {
		log.WithField("count", len(exact)).Infof("Found exact matches:\n%s", strings.Join(exact, "\n"))
	} else {
		log.Info("No exact matches")
	}

	mapping := models.NewCategoryMapping()
	mapping.LunchMoneyOptions = leafNames
	for _, mintCategory := range toMap {
		mapping.Categories[mintCategory] = models.CategoryDescriptor{
			Category: bestMatch(mintCategory, leafNames, score),
		}
	}

	log.WithField("count", len(mapping.Categories)).
		Info("Generated category mapping, review the suggestions before running the migration")

	if err := st.SaveCategoryMapping(mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Resolve annotates every record with its destination category. Records
// with an explicit mapping entry get the mapped name, the entry's tags
// (defaulting to "uncategorized") and a provenance note; records without
// one keep their Mint category name unchanged. Afterwards it verifies that
// every Mint category is covered by the remote leaf categories or the
// mapping keys; leftovers abort the run.
func Resolve(records []*models.TransactionRecord, mapping *models.CategoryMapping, remoteLeafNames []string) error {
	for _, record := range records {
		desc, mapped := mapping.Resolve(record.Category)
		record.LunchMoneyCategoryName = desc.Category
		if !mapped {
			continue
		}

		tags := desc.Tags
		if len(tags) == 0 {
			tags = defaultTags
		}
		for _, tag := range tags {
			record.LunchMoneyTags.Add(tag)
		}
		record.AppendNote("Original Mint category: " + record.Category)
	}

	if left := unmappedCategories(records, mapping, remoteLeafNames); len(left) > 0 {
		return &migrateerror.UnmappedCategoriesError{Categories: left}
	}
	return nil
}

// ReconcileGroupConflicts verifies that no effective destination category
// name collides with an existing or pending category group name. The two
// namespaces are disjoint on Lunch Money, so any overlap is fatal before
// remote creation starts.
func ReconcileGroupConflicts(effectiveNames, existingGroupNames, pendingGroupNames []string) error {
	groups := map[string]bool{}
	for _, name := range existingGroupNames {
		groups[name] = true
	}
	for _, name := range pendingGroupNames {
		groups[name] = true
	}

	var conflicts []string
	for _, name := range effectiveNames {
		if groups[name] {
			conflicts = append(conflicts, name)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return &migrateerror.GroupConflictError{Names: conflicts}
	}
	return nil
}

// CreateRemote creates the category groups and leaf categories the records
// need that do not exist remotely yet. Groups are created first because
// leaf creation needs the parent group id. Names already present in the
// catalog are never recreated.
func CreateRemote(ctx context.Context, records []*models.TransactionRecord, mapping *models.CategoryMapping, client CategoryClient) error {
	catalog, err := client.Categories(ctx)
	if err != nil {
		return err
	}

	existingLeaves := map[string]bool{uncategorizedSentinel: true}
	existingGroupNames := []string{}
	groupIDs := map[string]int64{}
	for _, category := range catalog {
		if category.IsGroup {
			existingGroupNames = append(existingGroupNames, category.Name)
			groupIDs[category.Name] = category.ID
		} else {
			existingLeaves[category.Name] = true
		}
	}

	effective := effectiveCategoryNames(records)
	if err := ReconcileGroupConflicts(effective, existingGroupNames, mapKeys(mapping.CategoryGroups)); err != nil {
		return err
	}

	for _, groupName := range sortedKeys(mapping.CategoryGroups) {
		if _, exists := groupIDs[groupName]; exists {
			continue
		}
		group := mapping.CategoryGroups[groupName]
		log.WithField("group", groupName).Info("Creating Lunch Money category group")
		id, err := client.CreateCategoryGroup(ctx, lunchmoney.CategoryGroupRequest{
			Name:              groupName,
			IsIncome:          group.Income,
			ExcludeFromBudget: group.ExcludeFromBudget,
			ExcludeFromTotals: group.ExcludeFromTotals,
		})
		if err != nil {
			return err
		}
		groupIDs[groupName] = id
	}

	created := map[string]bool{}
	for _, mintCategory := range uniqueMintCategories(records) {
		desc, _ := mapping.Resolve(mintCategory)
		if existingLeaves[desc.Category] || created[desc.Category] {
			continue
		}

		req := lunchmoney.CategoryRequest{
			Name:              desc.Category,
			IsIncome:          desc.Income,
			ExcludeFromBudget: desc.ExcludeFromBudget,
			ExcludeFromTotals: desc.ExcludeFromTotals,
		}
		if desc.CategoryGroup != "" {
			req.GroupID = groupIDs[desc.CategoryGroup]
		}

		log.WithFields(logrus.Fields{
			"category": desc.Category,
			"group":    desc.CategoryGroup,
		}).Info("Creating Lunch Money category")
		if _, err := client.CreateCategory(ctx, req); err != nil {
			return err
		}
		created[desc.Category] = true
	}
	return nil
}

// AddRemoteIDs resolves each record's category id from the remote catalog.
// Records still carrying the "Uncategorized" sentinel are logged but not
// rejected; they upload without a category id.
func AddRemoteIDs(ctx context.Context, records []*models.TransactionRecord, client CategoryClient) error {
	catalog, err := client.Categories(ctx)
	if err != nil {
		return err
	}

	ids := map[string]int64{}
	for _, category := range catalog {
		if !category.IsGroup {
			ids[category.Name] = category.ID
		}
	}

	for _, record := range records {
		if record.LunchMoneyCategoryName == uncategorizedSentinel {
			log.WithFields(logrus.Fields{
				"description": record.Description,
				"date":        record.Date,
			}).Info("Transaction is uncategorized")
		}
		record.LunchMoneyCategoryID = ids[record.LunchMoneyCategoryName]
	}
	return nil
}

// LeafNames returns the leaf category names of a fetched catalog.
func LeafNames(catalog []lunchmoney.Category) []string {
	return leafCategoryNames(catalog)
}

func leafCategoryNames(catalog []lunchmoney.Category) []string {
	var names []string
	for _, category := range catalog {
		if !category.IsGroup {
			names = append(names, category.Name)
		}
	}
	return names
}

// uniqueMintCategories returns the distinct non-empty Mint categories in
// first-appearance order.
func uniqueMintCategories(records []*models.TransactionRecord) []string {
	var categories []string
	seen := map[string]bool{}
	for _, record := range records {
		if record.Category == "" || seen[record.Category] {
			continue
		}
		seen[record.Category] = true
		categories = append(categories, record.Category)
	}
	return categories
}

// effectiveCategoryNames returns the distinct destination category names
// the records resolved to, in first-appearance order.
func effectiveCategoryNames(records []*models.TransactionRecord) []string {
	var names []string
	seen := map[string]bool{}
	for _, record := range records {
		if record.LunchMoneyCategoryName == "" || seen[record.LunchMoneyCategoryName] {
			continue
		}
		seen[record.LunchMoneyCategoryName] = true
		names = append(names, record.LunchMoneyCategoryName)
	}
	return names
}

func splitExactMatches(mintCategories, leafNames []string) (exact, toMap []string) {
	leaves := map[string]bool{}
	for _, name := range leafNames {
		leaves[name] = true
	}
	for _, mintCategory := range mintCategories {
		if leaves[mintCategory] {
			exact = append(exact, mintCategory)
		} else {
			toMap = append(toMap, mintCategory)
		}
	}
	return exact, toMap
}

// bestMatch picks the highest scoring leaf name, or the Mint name itself
// when there is nothing to match against.
func bestMatch(mintCategory string, leafNames []string, score Scorer) string {
	best := mintCategory
	bestScore := -1.0
	for _, candidate := range leafNames {
		if s := score(mintCategory, candidate); s > bestScore {
			best = candidate
			bestScore = s
		}
	}
	return best
}

func unmappedCategories(records []*models.TransactionRecord, mapping *models.CategoryMapping, remoteLeafNames []string) []string {
	covered := map[string]bool{uncategorizedSentinel: true}
	for _, name := range remoteLeafNames {
		covered[name] = true
	}
	for name := range mapping.Categories {
		covered[name] = true
	}

	var left []string
	for _, mintCategory := range uniqueMintCategories(records) {
		if !covered[mintCategory] {
			left = append(left, mintCategory)
		}
	}
	return left
}

func mapKeys(groups map[string]models.CategoryGroupDescriptor) []string {
	keys := make([]string, 0, len(groups))
	for name := range groups {
		keys = append(keys, name)
	}
	return keys
}

func sortedKeys(groups map[string]models.CategoryGroupDescriptor) []string {
	keys := mapKeys(groups)
	sort.Strings(keys)
	return keys
}
