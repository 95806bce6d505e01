package store

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// ListCategories returns the catalog in id order.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var (
			category    models.Category
			description sql.NullString
		)
		if err := rows.Scan(&category.ID, &category.Name, &description); err != nil {
			return nil, err
		}
		category.Description = description.String
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// ReplaceCategories wipes the catalog, resets the id sequence, and
// inserts the given entries in order so they receive ids 1..n.
func (s *Store) ReplaceCategories(ctx context.Context, categories []models.Category) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return err
	}
	// sqlite_sequence only exists once an AUTOINCREMENT table has rows.
	var hasSequence int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='sqlite_sequence'").Scan(&hasSequence); err != nil {
		return err
	}
	if hasSequence > 0 {
		if _, err = tx.ExecContext(ctx, "UPDATE sqlite_sequence SET seq = 0 WHERE name = 'categories'"); err != nil {
			return err
		}
	}
	for _, category := range categories {
		if category.Name == "" {
			return fmt.Errorf("category name is required")
		}
		if _, err = tx.ExecContext(ctx, "INSERT INTO categories (name, description) VALUES (?, ?)",
			category.Name, nullIfEmpty(category.Description)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
