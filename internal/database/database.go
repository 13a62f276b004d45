// Package database contains the Postgres query layer.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idoBeitOn/MealMate/internal/sql"
)

// uniqueViolation is the SQLSTATE raised when a unique index rejects a write.
const uniqueViolation = "23505"

// Store is the query surface handlers depend on. *Database implements it
// against Postgres; tests substitute in-memory fakes.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)

	CreateRecipe(ctx context.Context, params CreateRecipeParams) (int64, error)
	UpdateRecipe(ctx context.Context, params UpdateRecipeParams) error
	DeleteRecipe(ctx context.Context, id int64) error
	GetRecipe(ctx context.Context, id int64) (RecipeDetail, error)
	GetRecipeOwner(ctx context.Context, id int64) (int64, error)
	ListPublicRecipes(ctx context.Context) ([]RecipeSummary, error)
	SearchRecipes(ctx context.Context, params SearchRecipesParams) ([]RecipeSummary, error)
	RecipeExists(ctx context.Context, id int64) (bool, error)
	ToggleLike(ctx context.Context, recipeID, userID int64) (bool, int64, error)
	AddFavorite(ctx context.Context, recipeID, userID int64) error
	RemoveFavorite(ctx context.Context, recipeID, userID int64) error
	AddRecipeImage(ctx context.Context, recipeID int64, url string) error

	CreateComment(ctx context.Context, params CreateCommentParams) (Comment, error)
	ListCommentsByRecipe(ctx context.Context, recipeID int64) ([]Comment, error)
	GetCommentOwner(ctx context.Context, id int64) (int64, error)
	DeleteComment(ctx context.Context, id int64) error

	CreateMeal(ctx context.Context, params CreateMealParams) (Meal, error)
	ListMealsForUser(ctx context.Context, userID int64) ([]MealWithRecipe, error)
	GetMealOwner(ctx context.Context, id int64) (int64, error)
	UpdateMeal(ctx context.Context, params UpdateMealParams) (Meal, error)
	DeleteMeal(ctx context.Context, id int64) error

	MealIngredientsForUser(ctx context.Context, userID int64) ([]MealIngredient, error)
	ReplaceShoppingListItems(ctx context.Context, userID int64, items []NewListItem) (ShoppingList, error)
	AddShoppingListItem(ctx context.Context, userID int64, name, amount string) (ShoppingList, error)
	DeleteShoppingListItem(ctx context.Context, userID, itemID int64) (ShoppingList, error)
	ToggleShoppingListItem(ctx context.Context, userID, itemID int64) (ShoppingList, error)
	GetShoppingList(ctx context.Context, userID int64) (ShoppingList, error)

	CreateCategory(ctx context.Context, name, description string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type Database struct {
	pool *pgxpool.Pool
}

var _ Store = (*Database)(nil)

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{pool: pool}
}

// Ping checks storage connectivity for the health endpoint.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *Database) Close() {
	db.pool.Close()
}

// EnsureSchema applies the schema to the database if it is not detected.
func (db *Database) EnsureSchema(ctx context.Context) error {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'users'
		)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ensuring schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := db.pool.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (db *Database) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return tx, nil
}
