package finance

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fincheck/internal/models"
	"fincheck/internal/uuid"
)

// DefaultCategoryNames are the global default categories seeded for every installation.
var DefaultCategoryNames = []string{
	"Food & Dining",
	"Transportation",
	"Utilities",
	"Entertainment",
	"Healthcare",
	"Shopping",
	"Housing",
	"Education",
	"Travel",
	"Insurance",
	"Savings",
	"Investments",
	"Debt Payment",
	"Gifts & Donations",
	"Personal Care",
	"Salary",
	"Freelance",
	"Business Income",
	"Investment Returns",
	"Other Income",
}

// EffectiveCategories merges the active global defaults with the categories a
// user owns. userCategories may include inactive records: any override,
// active or hidden, suppresses its global default, while only active user
// categories are returned. Global defaults come first, then user categories,
// each group ordered by name using a case-insensitive collation.
func EffectiveCategories(globals, userCategories []models.Category) []models.Category {
	overridden := make(map[string]struct{})
	for i := range userCategories {
		if userCategories[i].IsOverride() {
			overridden[*userCategories[i].OverridesGlobalDefault] = struct{}{}
		}
	}

	result := make([]models.Category, 0, len(globals)+len(userCategories))
	for _, g := range globals {
		if !g.IsActive || !g.IsGlobalDefault {
			continue
		}
		if _, ok := overridden[g.ID]; ok {
			continue
		}
		result = append(result, g)
	}
	for _, c := range userCategories {
		if c.IsActive && !c.IsGlobalDefault {
			result = append(result, c)
		}
	}

	SortCategories(result)
	return result
}

// SortCategories orders categories with global defaults first, then by name.
func SortCategories(categories []models.Category) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.IsGlobalDefault != b.IsGlobalDefault {
			return a.IsGlobalDefault
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
}

// NameIndex maps category ids to display names. Values that are not known ids
// are treated as legacy free-form labels.
type NameIndex map[string]string

// NewNameIndex builds an index from every category a user can reference,
// including inactive ones so historical transactions keep their names.
func NewNameIndex(categories []models.Category) NameIndex {
	idx := make(NameIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c.Name
	}
	return idx
}

// Resolve returns the display name for a stored category reference.
func (idx NameIndex) Resolve(ref string) string {
	if ref == "" {
		return models.UncategorizedLabel
	}
	if name, ok := idx[ref]; ok {
		return name
	}
	if uuid.IsValid(ref) {
		return models.UncategorizedLabel
	}
	return ref
}
