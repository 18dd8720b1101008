// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PortfolioItem is a single project shown in the public gallery.
// Technologies keep insertion order and contain no duplicates.
type PortfolioItem struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	LongDescription *string     `json:"longDescription,omitempty"`
	GithubURL       *string     `json:"githubUrl,omitempty"`
	VideoURL        *string     `json:"videoUrl,omitempty"`
	ImageURL        *string     `json:"imageUrl,omitempty"`
	Technologies    []string    `json:"technologies"`
	CategoryIDs     []uuid.UUID `json:"categoryIds"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// InCategory reports whether the item references the given category.
func (p *PortfolioItem) InCategory(id uuid.UUID) bool {
	return slices.Contains(p.CategoryIDs, id)
}

// PortfolioPatch carries the fields of an update. Nil fields are left
// unchanged; a non-nil pointer to an empty string clears an optional URL.
type PortfolioPatch struct {
	Title           *string
	Description     *string
	LongDescription *string
	GithubURL       *string
	VideoURL        *string
	ImageURL        *string
	Technologies    *[]string
	CategoryIDs     *[]uuid.UUID
}

// PortfolioFilter narrows a portfolio listing. A nil CategoryID lists everything.
type PortfolioFilter struct {
	CategoryID *uuid.UUID
}
