// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups portfolio items. Names are unique by convention only.
// Deleting a category leaves references in PortfolioItem.CategoryIDs in
// place; readers skip ids that no longer resolve.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryPatch carries the fields of an update. Nil fields are left unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// CategoryIndex maps category ids to categories for display-time lookups.
type CategoryIndex map[uuid.UUID]Category

// IndexCategories builds a CategoryIndex from a list.
func IndexCategories(cats []Category) CategoryIndex {
	idx := make(CategoryIndex, len(cats))
	for _, c := range cats {
		idx[c.ID] = c
	}
	return idx
}

// Resolve returns the categories for ids in order, skipping dangling ids.
func (idx CategoryIndex) Resolve(ids []uuid.UUID) []Category {
	var out []Category
	for _, id := range ids {
		if c, ok := idx[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
