// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"skajny/internal/models"
)

// PortfolioStore manages portfolio items in the database.
type PortfolioStore struct {
	db  *sql.DB
	now Clock
}

// NewPortfolioStore returns a new PortfolioStore.
func NewPortfolioStore(db *sql.DB) *PortfolioStore {
	return &PortfolioStore{db: db, now: systemClock}
}

var portfolioColumns = []string{
	"id", "title", "description", "long_description",
	"github_url", "video_url", "image_url",
	"technologies", "category_ids", "created_at", "updated_at",
}

// scanPortfolioItem scans a row into a PortfolioItem. The array columns go
// through pgtype scanners because database/sql has no native array support.
func scanPortfolioItem(row scanner) (*models.PortfolioItem, error) {
	var (
		p      models.PortfolioItem
		techs  []string
		catIDs []string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.LongDescription,
		&p.GithubURL, &p.VideoURL, &p.ImageURL,
		pgTypes.SQLScanner(&techs), pgTypes.SQLScanner(&catIDs),
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if techs == nil {
		techs = []string{}
	}
	p.Technologies = techs
	if p.CategoryIDs, err = parseUUIDs(catIDs); err != nil {
		return nil, fmt.Errorf("parse category ids: %w", err)
	}
	return &p, nil
}

// List returns portfolio items ordered by creation date descending. When
// filter.CategoryID is set, only items referencing that category are returned.
func (s *PortfolioStore) List(ctx context.Context, filter models.PortfolioFilter) ([]models.PortfolioItem, error) {
	q := psql.Select(portfolioColumns...).
		From("portfolio_items").
		OrderBy("created_at DESC", "id DESC")
	if filter.CategoryID != nil {
		q = q.Where("?::uuid = ANY(category_ids)", *filter.CategoryID)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build portfolio list: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list portfolio items: %w", err)
	}
	defer rows.Close()

	var items []models.PortfolioItem
	for rows.Next() {
		p, err := scanPortfolioItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio item: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list portfolio items: %w", err)
	}
	return items, nil
}

// FindByID retrieves a portfolio item by ID. Returns nil if not found.
func (s *PortfolioStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	query, args, err := psql.Select(portfolioColumns...).
		From("portfolio_items").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build portfolio find: %w", err)
	}

	p, err := scanPortfolioItem(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find portfolio item by id: %w", err)
	}
	return p, nil
}

// Create inserts a new portfolio item and returns it with its assigned ID.
func (s *PortfolioStore) Create(ctx context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error) {
	now := s.now()
	techs := p.Technologies
	if techs == nil {
		techs = []string{}
	}

	query, args, err := psql.Insert("portfolio_items").
		Columns(
			"title", "description", "long_description",
			"github_url", "video_url", "image_url",
			"technologies", "category_ids", "created_at", "updated_at",
		).
		Values(
			p.Title, p.Description, optional(p.LongDescription),
			optional(p.GithubURL), optional(p.VideoURL), optional(p.ImageURL),
			techs, categoryIDs(p.CategoryIDs), now, now,
		).
		Suffix("RETURNING " + strings.Join(portfolioColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build portfolio insert: %w", err)
	}

	created, err := scanPortfolioItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("create portfolio item: %w", err)
	}
	return created, nil
}

// Update applies the non-nil fields of patch and refreshes updated_at.
// Returns ErrNotFound if no item has the given ID.
func (s *PortfolioStore) Update(ctx context.Context, id uuid.UUID, patch models.PortfolioPatch) error {
	q := psql.Update("portfolio_items").
		Set("updated_at", touchUpdatedAt(s.now())).
		Where("id = ?", id)
	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		q = q.Set("description", *patch.Description)
	}
	if patch.LongDescription != nil {
		q = q.Set("long_description", nullableString(*patch.LongDescription))
	}
	if patch.GithubURL != nil {
		q = q.Set("github_url", nullableString(*patch.GithubURL))
	}
	if patch.VideoURL != nil {
		q = q.Set("video_url", nullableString(*patch.VideoURL))
	}
	if patch.ImageURL != nil {
		q = q.Set("image_url", nullableString(*patch.ImageURL))
	}
	if patch.Technologies != nil {
		techs := *patch.Technologies
		if techs == nil {
			techs = []string{}
		}
		q = q.Set("technologies", techs)
	}
	if patch.CategoryIDs != nil {
		q = q.Set("category_ids", categoryIDs(*patch.CategoryIDs))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build portfolio update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update portfolio item: %w", err)
	}
	return requireAffected(res, "update portfolio item")
}

// Delete removes a portfolio item by ID. Deleting a missing item is not an error.
func (s *PortfolioStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete portfolio item: %w", err)
	}
	return nil
}

// optional normalises an optional text field so empty strings become NULL.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	return nullableString(*s)
}

// categoryIDs never hands a nil slice to the driver, which would store NULL.
func categoryIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
