package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const recipeSummaryColumns = `
	r.id, r.title, r.description, r.cook_time_minutes, r.difficulty,
	r.category_id, r.author_id, u.username, r.is_public,
	(SELECT count(*) FROM recipe_likes l WHERE l.recipe_id = r.id) AS likes_count,
	r.created_at`

type CreateRecipeParams struct {
	Title           string
	Description     string
	CookTimeMinutes int32
	Difficulty      string
	CategoryID      *int64
	AuthorID        int64
	IsPublic        bool
	Nutrition       Nutrition
	Ingredients     []Ingredient
	Steps           []string
	Images          []string
}

// CreateRecipe inserts the recipe and its ordered ingredient, step, and
// image lists in one transaction.
func (db *Database) CreateRecipe(ctx context.Context, params CreateRecipeParams) (int64, error) {
	tx, err := db.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var recipeID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO recipes (title, description, cook_time_minutes, difficulty,
			category_id, author_id, is_public, calories, fat, carbohydrates, protein)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		params.Title, params.Description, params.CookTimeMinutes, params.Difficulty,
		params.CategoryID, params.AuthorID, params.IsPublic,
		params.Nutrition.Calories, params.Nutrition.Fat,
		params.Nutrition.Carbohydrates, params.Nutrition.Protein,
	).Scan(&recipeID)
	if err != nil {
		return 0, fmt.Errorf("inserting recipe: %w", err)
	}

	if err := insertRecipeChildren(ctx, tx, recipeID, params.Ingredients, params.Steps, params.Images); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing recipe: %w", err)
	}
	return recipeID, nil
}

type UpdateRecipeParams struct {
	ID              int64
	Title           string
	Description     string
	CookTimeMinutes int32
	Difficulty      string
	CategoryID      *int64
	IsPublic        bool
	Nutrition       Nutrition
	Ingredients     []Ingredient
	Steps           []string
	Images          []string
}

// UpdateRecipe replaces the recipe's mutable fields and its child lists.
// The author column is never touched.
func (db *Database) UpdateRecipe(ctx context.Context, params UpdateRecipeParams) error {
	tx, err := db.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE recipes SET title = $2, description = $3, cook_time_minutes = $4,
			difficulty = $5, category_id = $6, is_public = $7,
			calories = $8, fat = $9, carbohydrates = $10, protein = $11,
			updated_at = now()
		 WHERE id = $1`,
		params.ID, params.Title, params.Description, params.CookTimeMinutes,
		params.Difficulty, params.CategoryID, params.IsPublic,
		params.Nutrition.Calories, params.Nutrition.Fat,
		params.Nutrition.Carbohydrates, params.Nutrition.Protein)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	for _, table := range []string{"recipe_ingredients", "recipe_steps", "recipe_images"} {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE recipe_id = $1", table), params.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := insertRecipeChildren(ctx, tx, params.ID, params.Ingredients, params.Steps, params.Images); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing recipe update: %w", err)
	}
	return nil
}

func (db *Database) DeleteRecipe(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetRecipeOwner returns the author of a recipe, or pgx.ErrNoRows when the
// recipe does not exist.
func (db *Database) GetRecipeOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := db.pool.QueryRow(ctx,
		`SELECT author_id FROM recipes WHERE id = $1`, id).Scan(&ownerID)
	return ownerID, err
}

func (db *Database) GetRecipe(ctx context.Context, id int64) (RecipeDetail, error) {
	var detail RecipeDetail
	err := db.pool.QueryRow(ctx,
		`SELECT `+recipeSummaryColumns+`,
			r.calories, r.fat, r.carbohydrates, r.protein,
			c.name,
			(SELECT count(*) FROM recipe_favorites f WHERE f.recipe_id = r.id),
			r.updated_at
		 FROM recipes r
		 JOIN users u ON u.id = r.author_id
		 LEFT JOIN categories c ON c.id = r.category_id
		 WHERE r.id = $1`, id).Scan(
		&detail.ID, &detail.Title, &detail.Description, &detail.CookTimeMinutes,
		&detail.Difficulty, &detail.CategoryID, &detail.AuthorID, &detail.AuthorUsername,
		&detail.IsPublic, &detail.LikesCount, &detail.CreatedAt,
		&detail.Nutrition.Calories, &detail.Nutrition.Fat,
		&detail.Nutrition.Carbohydrates, &detail.Nutrition.Protein,
		&detail.CategoryName, &detail.FavoritesCount, &detail.UpdatedAt)
	if err != nil {
		return RecipeDetail{}, err
	}

	rows, err := db.pool.Query(ctx,
		`SELECT name, amount FROM recipe_ingredients
		 WHERE recipe_id = $1 ORDER BY position`, id)
	if err != nil {
		return RecipeDetail{}, fmt.Errorf("querying ingredients: %w", err)
	}
	defer rows.Close()
	detail.Ingredients = []Ingredient{}
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.Name, &ing.Amount); err != nil {
			return RecipeDetail{}, err
		}
		detail.Ingredients = append(detail.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return RecipeDetail{}, err
	}

	detail.Steps, err = db.queryStrings(ctx,
		`SELECT instruction FROM recipe_steps WHERE recipe_id = $1 ORDER BY position`, id)
	if err != nil {
		return RecipeDetail{}, fmt.Errorf("querying steps: %w", err)
	}
	detail.Images, err = db.queryStrings(ctx,
		`SELECT url FROM recipe_images WHERE recipe_id = $1 ORDER BY position`, id)
	if err != nil {
		return RecipeDetail{}, fmt.Errorf("querying images: %w", err)
	}

	return detail, nil
}

func (db *Database) ListPublicRecipes(ctx context.Context) ([]RecipeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+recipeSummaryColumns+`
		 FROM recipes r JOIN users u ON u.id = r.author_id
		 WHERE r.is_public
		 ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()
	return scanRecipeSummaries(rows)
}

type SearchRecipesParams struct {
	Query       string
	CategoryID  *int64
	Difficulty  string
	MaxCookTime *int32
	AuthorID    *int64
	SortBy      string
	ViewerID    int64
}

// SearchRecipes applies conjunctive filters and the requested ordering.
// Free text matches the title/description tsvector or an ingredient name.
func (db *Database) SearchRecipes(ctx context.Context, params SearchRecipesParams) ([]RecipeSummary, error) {
	conditions := []string{"(r.is_public OR r.author_id = $1)"}
	args := []any{params.ViewerID}

	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Query != "" {
		ph := addArg(params.Query)
		conditions = append(conditions, fmt.Sprintf(
			`(to_tsvector('english', r.title || ' ' || r.description)
				@@ websearch_to_tsquery('english', %[1]s)
			 OR EXISTS (
				SELECT 1 FROM recipe_ingredients ri
				WHERE ri.recipe_id = r.id AND ri.name ILIKE '%%' || %[1]s || '%%'))`, ph))
	}
	if params.CategoryID != nil {
		conditions = append(conditions, "r.category_id = "+addArg(*params.CategoryID))
	}
	if params.Difficulty != "" {
		conditions = append(conditions, "r.difficulty = "+addArg(params.Difficulty))
	}
	if params.MaxCookTime != nil {
		conditions = append(conditions, "r.cook_time_minutes <= "+addArg(*params.MaxCookTime))
	}
	if params.AuthorID != nil {
		conditions = append(conditions, "r.author_id = "+addArg(*params.AuthorID))
	}

	orderBy := "r.created_at DESC"
	switch params.SortBy {
	case "likes":
		orderBy = "likes_count DESC, r.created_at DESC"
	case "trending":
		// Trending restricts to the trailing week and ranks by likes.
		conditions = append(conditions, "r.created_at > now() - interval '7 days'")
		orderBy = "likes_count DESC, r.created_at DESC"
	}

	query := `SELECT ` + recipeSummaryColumns + `
		 FROM recipes r JOIN users u ON u.id = r.author_id
		 WHERE ` + strings.Join(conditions, " AND ") + `
		 ORDER BY ` + orderBy

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching recipes: %w", err)
	}
	defer rows.Close()
	return scanRecipeSummaries(rows)
}

// ToggleLike removes the caller's like when present, adds it otherwise, and
// recomputes the like count from the set inside the same transaction so the
// count can never drift.
func (db *Database) ToggleLike(ctx context.Context, recipeID, userID int64) (liked bool, likes int64, err error) {
	tx, err := db.begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`DELETE FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2`,
		recipeID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("removing like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_likes (recipe_id, user_id) VALUES ($1, $2)`,
			recipeID, userID); err != nil {
			return false, 0, fmt.Errorf("adding like: %w", err)
		}
		liked = true
	}

	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM recipe_likes WHERE recipe_id = $1`, recipeID).Scan(&likes)
	if err != nil {
		return false, 0, fmt.Errorf("counting likes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("committing like toggle: %w", err)
	}
	return liked, likes, nil
}

func (db *Database) AddFavorite(ctx context.Context, recipeID, userID int64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO recipe_favorites (recipe_id, user_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		recipeID, userID)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

func (db *Database) RemoveFavorite(ctx context.Context, recipeID, userID int64) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM recipe_favorites WHERE recipe_id = $1 AND user_id = $2`,
		recipeID, userID)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}

func (db *Database) AddRecipeImage(ctx context.Context, recipeID int64, url string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO recipe_images (recipe_id, position, url)
		 VALUES ($1,
			(SELECT coalesce(max(position), 0) + 1 FROM recipe_images WHERE recipe_id = $1),
			$2)`,
		recipeID, url)
	if err != nil {
		return fmt.Errorf("adding recipe image: %w", err)
	}
	return nil
}
