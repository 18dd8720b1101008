package form

import (
	"net/url"
	"strings"

	"skajny/internal/models"
)

// Category is the state of the category dialog.
type Category struct {
	Name        string
	Description string
}

// With implements State.
func (c Category) With(field, value string) Category {
	switch field {
	case FieldName:
		c.Name = value
	case FieldDescription:
		c.Description = value
	}
	return c
}

// CategoryFrom pre-populates the dialog from an existing category.
func CategoryFrom(c *models.Category) Category {
	f := Category{Name: c.Name}
	if c.Description != nil {
		f.Description = *c.Description
	}
	return f
}

// ParseCategory builds the dialog state from submitted form values.
func ParseCategory(v url.Values) Category {
	var f Category
	for _, field := range []string{FieldName, FieldDescription} {
		f = Reduce(f, field, strings.TrimSpace(v.Get(field)))
	}
	return f
}

// Validate reports missing required fields.
func (c Category) Validate() Errors {
	errs := Errors{}
	required(errs, FieldName, c.Name)
	return errs
}

// Model converts the dialog into a new category.
func (c Category) Model() *models.Category {
	m := &models.Category{Name: c.Name}
	if c.Description != "" {
		m.Description = &c.Description
	}
	return m
}

// Patch converts the dialog into a full update of the editable fields.
func (c Category) Patch() models.CategoryPatch {
	name, desc := c.Name, c.Description
	return models.CategoryPatch{Name: &name, Description: &desc}
}
