// Package shopping aggregates planned-meal ingredients into a shopping list.
package shopping

import (
	"strings"

	"github.com/idoBeitOn/MealMate/internal/database"
)

const (
	SourceMeal   = "meal"
	SourceManual = "manual"
)

// Aggregate merges the ingredients of all planned meals into a
// deduplicated item list. The dedup key is the trimmed, lower-cased
// ingredient name; the first occurrence wins and supplies the amount.
func Aggregate(ingredients []database.MealIngredient) []database.NewListItem {
	seen := make(map[string]bool, len(ingredients))
	items := []database.NewListItem{}

	for _, ing := range ingredients {
		key := strings.ToLower(strings.TrimSpace(ing.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, database.NewListItem{
			Name:   ing.Name,
			Amount: ing.Amount,
			Source: SourceMeal,
		})
	}

	return items
}
