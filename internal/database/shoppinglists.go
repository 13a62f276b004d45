package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrItemNotFound marks a list operation that targeted an item the list
// does not contain. The list itself missing is reported as pgx.ErrNoRows.
var ErrItemNotFound = errors.New("shopping list item not found")

// MealIngredient is one ingredient pulled from a planned meal's recipe,
// in meal order then recipe order.
type MealIngredient struct {
	Name   string
	Amount string
}

// MealIngredientsForUser expands every meal of the user to its recipe's
// ingredients. Meals without a recipe contribute nothing.
func (db *Database) MealIngredientsForUser(ctx context.Context, userID int64) ([]MealIngredient, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT ri.name, ri.amount
		 FROM meals m
		 JOIN recipes r ON r.id = m.recipe_id
		 JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		 WHERE m.user_id = $1
		 ORDER BY m.day_of_week, m.time_slot, ri.position`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying meal ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []MealIngredient{}
	for rows.Next() {
		var ing MealIngredient
		if err := rows.Scan(&ing.Name, &ing.Amount); err != nil {
			return nil, fmt.Errorf("scanning meal ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

type NewListItem struct {
	Name      string
	Amount    string
	Purchased bool
	Source    string
}

// ReplaceShoppingListItems upserts the user's list and replaces its whole
// item collection in one transaction. Regeneration is a full overwrite:
// manual items and purchased flags do not survive it.
func (db *Database) ReplaceShoppingListItems(ctx context.Context, userID int64, items []NewListItem) (ShoppingList, error) {
	tx, err := db.begin(ctx)
	if err != nil {
		return ShoppingList{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	listID, err := upsertList(ctx, tx, userID)
	if err != nil {
		return ShoppingList{}, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM shopping_list_items WHERE list_id = $1`, listID); err != nil {
		return ShoppingList{}, fmt.Errorf("clearing list items: %w", err)
	}
	for i, item := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO shopping_list_items (list_id, position, name, amount, purchased, source)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			listID, i, item.Name, item.Amount, item.Purchased, item.Source); err != nil {
			return ShoppingList{}, fmt.Errorf("inserting list item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ShoppingList{}, fmt.Errorf("committing list replacement: %w", err)
	}
	return db.GetShoppingList(ctx, userID)
}

// AddShoppingListItem appends a manual item, creating the list if absent.
// Manual adds are not deduplicated.
func (db *Database) AddShoppingListItem(ctx context.Context, userID int64, name, amount string) (ShoppingList, error) {
	tx, err := db.begin(ctx)
	if err != nil {
		return ShoppingList{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	listID, err := upsertList(ctx, tx, userID)
	if err != nil {
		return ShoppingList{}, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO shopping_list_items (list_id, position, name, amount, purchased, source)
		 VALUES ($1,
			(SELECT coalesce(max(position), 0) + 1 FROM shopping_list_items WHERE list_id = $1),
			$2, $3, FALSE, 'manual')`,
		listID, name, amount); err != nil {
		return ShoppingList{}, fmt.Errorf("inserting manual item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ShoppingList{}, fmt.Errorf("committing manual add: %w", err)
	}
	return db.GetShoppingList(ctx, userID)
}

// DeleteShoppingListItem removes the item if it belongs to the user's
// list. A missing item is a no-op, not an error.
func (db *Database) DeleteShoppingListItem(ctx context.Context, userID, itemID int64) (ShoppingList, error) {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM shopping_list_items i
		 USING shopping_lists l
		 WHERE i.id = $2 AND i.list_id = l.id AND l.user_id = $1`,
		userID, itemID)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("deleting list item: %w", err)
	}
	return db.GetShoppingList(ctx, userID)
}

// ToggleShoppingListItem flips the purchased flag. pgx.ErrNoRows is
// returned when the user has no list, ErrItemNotFound when the item is
// not in it.
func (db *Database) ToggleShoppingListItem(ctx context.Context, userID, itemID int64) (ShoppingList, error) {
	var listID int64
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM shopping_lists WHERE user_id = $1`, userID).Scan(&listID)
	if err != nil {
		return ShoppingList{}, err
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE shopping_list_items SET purchased = NOT purchased
		 WHERE id = $1 AND list_id = $2`, itemID, listID)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("toggling item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ShoppingList{}, ErrItemNotFound
	}
	return db.GetShoppingList(ctx, userID)
}

// GetShoppingList loads the user's list with its items in position order.
// pgx.ErrNoRows is returned when the user has no list yet.
func (db *Database) GetShoppingList(ctx context.Context, userID int64) (ShoppingList, error) {
	var list ShoppingList
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at
		 FROM shopping_lists WHERE user_id = $1`, userID,
	).Scan(&list.ID, &list.UserID, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return ShoppingList{}, err
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, amount, purchased, source
		 FROM shopping_list_items
		 WHERE list_id = $1 ORDER BY position`, list.ID)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("querying list items: %w", err)
	}
	defer rows.Close()

	list.Items = []ShoppingListItem{}
	for rows.Next() {
		var item ShoppingListItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Amount,
			&item.Purchased, &item.Source); err != nil {
			return ShoppingList{}, fmt.Errorf("scanning list item: %w", err)
		}
		list.Items = append(list.Items, item)
	}
	return list, rows.Err()
}

func upsertList(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	var listID int64
	err := tx.QueryRow(ctx,
		`INSERT INTO shopping_lists (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		 RETURNING id`, userID).Scan(&listID)
	if err != nil {
		return 0, fmt.Errorf("upserting shopping list: %w", err)
	}
	return listID, nil
}
