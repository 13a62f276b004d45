package database

import (
	"context"
	"fmt"
)

type CreateCommentParams struct {
	RecipeID int64
	UserID   int64
	Body     string
}

// CreateComment inserts the comment and returns it with the commenter's
// username and email expanded, matching what the feed renders.
func (db *Database) CreateComment(ctx context.Context, params CreateCommentParams) (Comment, error) {
	var comment Comment
	err := db.pool.QueryRow(ctx,
		`WITH inserted AS (
			INSERT INTO comments (recipe_id, user_id, body)
			VALUES ($1, $2, $3)
			RETURNING id, recipe_id, user_id, body, created_at
		 )
		 SELECT i.id, i.recipe_id, i.user_id, u.username, u.email, i.body, i.created_at
		 FROM inserted i JOIN users u ON u.id = i.user_id`,
		params.RecipeID, params.UserID, params.Body,
	).Scan(&comment.ID, &comment.RecipeID, &comment.UserID,
		&comment.Username, &comment.UserEmail, &comment.Body, &comment.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}

func (db *Database) ListCommentsByRecipe(ctx context.Context, recipeID int64) ([]Comment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.recipe_id, c.user_id, u.username, u.email, c.body, c.created_at
		 FROM comments c JOIN users u ON u.id = c.user_id
		 WHERE c.recipe_id = $1
		 ORDER BY c.created_at DESC`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.UserID,
			&c.Username, &c.UserEmail, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetCommentOwner returns the comment's author, or pgx.ErrNoRows when the
// comment does not exist.
func (db *Database) GetCommentOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := db.pool.QueryRow(ctx,
		`SELECT user_id FROM comments WHERE id = $1`, id).Scan(&ownerID)
	return ownerID, err
}

func (db *Database) DeleteComment(ctx context.Context, id int64) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

// RecipeExists reports whether the recipe row is present.
func (db *Database) RecipeExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
