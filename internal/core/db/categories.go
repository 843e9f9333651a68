package db

import (
	"fmt"
	"strings"

	"github.com/punchcard-dev/punchcard/internal/core/models"
)

// AddCategory inserts a category. Names are unique per owner,
// case-insensitively; a duplicate name is rejected.
func (db *DB) AddCategory(c models.Category) error {
	_, err := db.conn.Exec(`
		INSERT INTO categories (id, owner, name, icon)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Owner, c.Name, c.Icon)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return &models.ValidationError{Field: "name", Reason: fmt.Sprintf("category %q already exists", c.Name)}
		}
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

// RemoveCategory deletes a category by name. Sessions referencing the name
// are left untouched; orphaned references are permitted.
func (db *DB) RemoveCategory(owner, name string) error {
	if _, err := db.conn.Exec(`
		DELETE FROM categories WHERE owner = ? AND LOWER(name) = LOWER(?)
	`, owner, name); err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	return nil
}

// ListCategories returns the owner's categories sorted by name.
func (db *DB) ListCategories(owner string) ([]models.Category, error) {
	rows, err := db.conn.Query(`
		SELECT id, owner, name, icon
		FROM categories
		WHERE owner = ?
		ORDER BY LOWER(name)
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Icon); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
