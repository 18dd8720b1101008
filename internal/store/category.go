// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"skajny/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db  *sql.DB
	now Clock
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db, now: systemClock}
}

const categoryColumns = `id, name, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name ascending.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it with its assigned ID.
// created_at and updated_at are both set to the writer's clock.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	now := s.now()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Description, now,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// Update applies the non-nil fields of patch and refreshes updated_at.
// Returns ErrNotFound if no category has the given ID.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) error {
	q := psql.Update("categories").
		Set("updated_at", touchUpdatedAt(s.now())).
		Where("id = ?", id)
	if patch.Name != nil {
		q = q.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		q = q.Set("description", nullableString(*patch.Description))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build category update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, "update category")
}

// Delete removes a category by ID. Deleting a missing category is not an
// error. Portfolio items keep any reference to the deleted ID.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// nullableString stores an empty optional text field as NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// requireAffected maps a zero-row update to ErrNotFound.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
