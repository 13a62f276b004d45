package database

import (
	"context"
	"fmt"
)

type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (db *Database) CreateCategory(ctx context.Context, name, description string) (Category, error) {
	var category Category
	err := db.pool.QueryRow(ctx,
		`INSERT INTO categories (name, description)
		 VALUES ($1, $2)
		 RETURNING id, name, description, image_url`,
		name, description,
	).Scan(&category.ID, &category.Name, &category.Description, &category.ImageURL)
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

func (db *Database) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, image_url FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
