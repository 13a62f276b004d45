package database

import (
	"context"
	"fmt"
)

// MealSlotConstraint names the unique index guarding one meal per
// (user, day, slot). Violations surface as SQLSTATE 23505.
const MealSlotConstraint = "meals_user_id_day_of_week_time_slot_key"

type CreateMealParams struct {
	UserID     int64
	DayOfWeek  int32
	TimeSlot   int32
	RecipeID   *int64
	CustomName *string
	Notes      string
}

// CreateMeal inserts the meal. The slot uniqueness rule is enforced by the
// database index, not a pre-check, so concurrent creators cannot both win.
func (db *Database) CreateMeal(ctx context.Context, params CreateMealParams) (Meal, error) {
	var meal Meal
	err := db.pool.QueryRow(ctx,
		`INSERT INTO meals (user_id, day_of_week, time_slot, recipe_id, custom_name, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, day_of_week, time_slot, recipe_id, custom_name, notes,
			created_at, updated_at`,
		params.UserID, params.DayOfWeek, params.TimeSlot,
		params.RecipeID, params.CustomName, params.Notes,
	).Scan(&meal.ID, &meal.UserID, &meal.DayOfWeek, &meal.TimeSlot,
		&meal.RecipeID, &meal.CustomName, &meal.Notes, &meal.CreatedAt, &meal.UpdatedAt)
	if err != nil {
		return Meal{}, err
	}
	return meal, nil
}

func (db *Database) ListMealsForUser(ctx context.Context, userID int64) ([]MealWithRecipe, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT m.id, m.user_id, m.day_of_week, m.time_slot, m.recipe_id,
			m.custom_name, m.notes, m.created_at, m.updated_at,
			r.title, r.cook_time_minutes,
			(SELECT i.url FROM recipe_images i
			 WHERE i.recipe_id = r.id ORDER BY i.position LIMIT 1)
		 FROM meals m
		 LEFT JOIN recipes r ON r.id = m.recipe_id
		 WHERE m.user_id = $1
		 ORDER BY m.day_of_week, m.time_slot`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	defer rows.Close()

	meals := []MealWithRecipe{}
	for rows.Next() {
		var m MealWithRecipe
		if err := rows.Scan(&m.ID, &m.UserID, &m.DayOfWeek, &m.TimeSlot, &m.RecipeID,
			&m.CustomName, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
			&m.RecipeTitle, &m.RecipeCookTime, &m.RecipeImage); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// GetMealOwner returns the meal's owner, or pgx.ErrNoRows when the meal
// does not exist.
func (db *Database) GetMealOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := db.pool.QueryRow(ctx,
		`SELECT user_id FROM meals WHERE id = $1`, id).Scan(&ownerID)
	return ownerID, err
}

type UpdateMealParams struct {
	ID         int64
	DayOfWeek  int32
	TimeSlot   int32
	RecipeID   *int64
	CustomName *string
	Notes      string
}

// UpdateMeal applies everything except ownership. Slot moves re-validate
// against the unique index.
func (db *Database) UpdateMeal(ctx context.Context, params UpdateMealParams) (Meal, error) {
	var meal Meal
	err := db.pool.QueryRow(ctx,
		`UPDATE meals SET day_of_week = $2, time_slot = $3, recipe_id = $4,
			custom_name = $5, notes = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING id, user_id, day_of_week, time_slot, recipe_id, custom_name, notes,
			created_at, updated_at`,
		params.ID, params.DayOfWeek, params.TimeSlot,
		params.RecipeID, params.CustomName, params.Notes,
	).Scan(&meal.ID, &meal.UserID, &meal.DayOfWeek, &meal.TimeSlot,
		&meal.RecipeID, &meal.CustomName, &meal.Notes, &meal.CreatedAt, &meal.UpdatedAt)
	if err != nil {
		return Meal{}, err
	}
	return meal, nil
}

func (db *Database) DeleteMeal(ctx context.Context, id int64) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	return nil
}
