package service

import "gourmet-ordering/menu-svc/internal/domain"

// AllSubcategories is the filter pill that disables subcategory filtering.
const AllSubcategories = "all"

// Subcategories lists the filter pills for items: "all" first, then each
// distinct subcategory in the order it first appears.
func Subcategories(items []domain.MenuItem) []string {
	subs := []string{AllSubcategories}
	seen := map[string]bool{AllSubcategories: true}
	for _, item := range items {
		if !seen[item.Subcategory] {
			seen[item.Subcategory] = true
			subs = append(subs, item.Subcategory)
		}
	}
	return subs
}

// NormalizeSelection drops blank entries and collapses a selection that is
// empty or contains "all" down to just "all".
func NormalizeSelection(selected []string) []string {
	out := make([]string, 0, len(selected))
	for _, sub := range selected {
		if sub == AllSubcategories {
			return []string{AllSubcategories}
		}
		if sub != "" {
			out = append(out, sub)
		}
	}
	if len(out) == 0 {
		return []string{AllSubcategories}
	}
	return out
}

func FilterItems(items []domain.MenuItem, selected []string) []domain.MenuItem {
	selection := NormalizeSelection(selected)
	if selection[0] == AllSubcategories {
		return append([]domain.MenuItem{}, items...)
	}

	want := make(map[string]bool, len(selection))
	for _, sub := range selection {
		want[sub] = true
	}
	filtered := []domain.MenuItem{}
	for _, item := range items {
		if want[item.Subcategory] {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
