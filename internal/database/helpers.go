package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func insertRecipeChildren(ctx context.Context, tx pgx.Tx, recipeID int64,
	ingredients []Ingredient, steps, images []string) error {
	for i, ing := range ingredients {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, position, name, amount)
			 VALUES ($1, $2, $3, $4)`,
			recipeID, i, ing.Name, ing.Amount); err != nil {
			return fmt.Errorf("inserting ingredient: %w", err)
		}
	}
	for i, step := range steps {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_steps (recipe_id, position, instruction)
			 VALUES ($1, $2, $3)`,
			recipeID, i, step); err != nil {
			return fmt.Errorf("inserting step: %w", err)
		}
	}
	for i, url := range images {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_images (recipe_id, position, url)
			 VALUES ($1, $2, $3)`,
			recipeID, i, url); err != nil {
			return fmt.Errorf("inserting image: %w", err)
		}
	}
	return nil
}

func scanRecipeSummaries(rows pgx.Rows) ([]RecipeSummary, error) {
	summaries := []RecipeSummary{}
	for rows.Next() {
		var s RecipeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.CookTimeMinutes,
			&s.Difficulty, &s.CategoryID, &s.AuthorID, &s.AuthorUsername,
			&s.IsPublic, &s.LikesCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (db *Database) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
