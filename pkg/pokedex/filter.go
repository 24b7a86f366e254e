package pokedex

import (
	"sort"
	"strings"
)

// Filter keeps items whose name contains query (case-insensitive) and whose
// categories include category. Empty query or category matches everything.
func Filter(items []DisplayItem, query, category string) []DisplayItem {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]DisplayItem, 0, len(items))
	for _, item := range items {
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		if category != "" && !hasCategory(item, category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Categories returns the distinct category labels across items, sorted.
func Categories(items []DisplayItem) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		for _, c := range item.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func hasCategory(item DisplayItem, category string) bool {
	for _, c := range item.Categories {
		if c == category {
			return true
		}
	}
	return false
}
