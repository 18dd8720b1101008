// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCategoryIndexResolveSkipsDangling(t *testing.T) {
	web := Category{ID: uuid.New(), Name: "Web"}
	mobile := Category{ID: uuid.New(), Name: "Mobil"}
	idx := IndexCategories([]Category{web, mobile})

	got := idx.Resolve([]uuid.UUID{mobile.ID, uuid.New(), web.ID})
	if len(got) != 2 {
		t.Fatalf("Resolve: got %d categories, want 2", len(got))
	}
	if got[0].Name != "Mobil" || got[1].Name != "Web" {
		t.Errorf("Resolve order: got %q, %q", got[0].Name, got[1].Name)
	}
}

func TestCategoryIndexResolveEmpty(t *testing.T) {
	idx := IndexCategories(nil)
	if got := idx.Resolve([]uuid.UUID{uuid.New()}); len(got) != 0 {
		t.Errorf("Resolve on empty index: got %v, want none", got)
	}
}

func TestPortfolioItemInCategory(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()
	item := &PortfolioItem{CategoryIDs: []uuid.UUID{c1}}

	if !item.InCategory(c1) {
		t.Error("InCategory(c1) = false, want true")
	}
	if item.InCategory(c2) {
		t.Error("InCategory(c2) = true, want false")
	}
}
