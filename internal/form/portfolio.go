package form

import (
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"skajny/internal/models"
)

// Portfolio is the state of the portfolio item dialog, including the
// pending text of the tag entry field.
type Portfolio struct {
	Title           string
	Description     string
	LongDescription string
	GithubURL       string
	VideoURL        string
	ImageURL        string
	TechInput       string
	Technologies    []string
	CategoryIDs     []uuid.UUID
}

// With implements State. The slices of the result are never shared with
// the receiver.
func (p Portfolio) With(field, value string) Portfolio {
	p.Technologies = slices.Clone(p.Technologies)
	p.CategoryIDs = slices.Clone(p.CategoryIDs)
	switch field {
	case FieldTitle:
		p.Title = value
	case FieldDescription:
		p.Description = value
	case FieldLongDescription:
		p.LongDescription = value
	case FieldGithubURL:
		p.GithubURL = value
	case FieldVideoURL:
		p.VideoURL = value
	case FieldImageURL:
		p.ImageURL = value
	case FieldTechInput:
		p.TechInput = value
	}
	return p
}

// AddTechnology commits the pending tag input and clears it.
func (p Portfolio) AddTechnology() Portfolio {
	next := p.With(FieldTechInput, "")
	next.Technologies = AddTechnology(p.Technologies, p.TechInput)
	return next
}

// RemoveTechnology removes a tag by exact match.
func (p Portfolio) RemoveTechnology(tag string) Portfolio {
	next := p.With("", "")
	next.Technologies = RemoveTechnology(p.Technologies, tag)
	return next
}

// HasCategory reports whether the category checkbox should be checked.
func (p Portfolio) HasCategory(id uuid.UUID) bool {
	return slices.Contains(p.CategoryIDs, id)
}

// PortfolioFrom pre-populates the dialog from an existing item.
func PortfolioFrom(item *models.PortfolioItem) Portfolio {
	return Portfolio{
		Title:           item.Title,
		Description:     item.Description,
		LongDescription: deref(item.LongDescription),
		GithubURL:       deref(item.GithubURL),
		VideoURL:        deref(item.VideoURL),
		ImageURL:        deref(item.ImageURL),
		Technologies:    slices.Clone(item.Technologies),
		CategoryIDs:     slices.Clone(item.CategoryIDs),
	}
}

// ParsePortfolio builds the dialog state from submitted form values.
// Technologies arrive as repeated hidden inputs, categories as checkboxes.
func ParsePortfolio(v url.Values) Portfolio {
	f := Portfolio{}
	for _, field := range []string{
		FieldTitle, FieldDescription, FieldLongDescription,
		FieldGithubURL, FieldVideoURL, FieldImageURL,
	} {
		f = Reduce(f, field, strings.TrimSpace(v.Get(field)))
	}
	f = Reduce(f, FieldTechInput, v.Get(FieldTechInput))
	f.Technologies = collectTechnologies(v)
	f.CategoryIDs = parseIDs(v["category_ids"])
	return f
}

// Validate reports missing required fields and malformed URLs.
func (p Portfolio) Validate() Errors {
	errs := Errors{}
	required(errs, FieldTitle, p.Title)
	required(errs, FieldDescription, p.Description)
	optionalURL(errs, FieldGithubURL, p.GithubURL)
	optionalURL(errs, FieldVideoURL, p.VideoURL)
	optionalURL(errs, FieldImageURL, p.ImageURL)
	return errs
}

// Model converts the dialog into a new portfolio item.
func (p Portfolio) Model() *models.PortfolioItem {
	return &models.PortfolioItem{
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: ref(p.LongDescription),
		GithubURL:       ref(p.GithubURL),
		VideoURL:        ref(p.VideoURL),
		ImageURL:        ref(p.ImageURL),
		Technologies:    slices.Clone(p.Technologies),
		CategoryIDs:     slices.Clone(p.CategoryIDs),
	}
}

// Patch converts the dialog into an update of every editable field. Empty
// optional fields are sent as empty strings, which the store clears.
func (p Portfolio) Patch() models.PortfolioPatch {
	title, desc, long := p.Title, p.Description, p.LongDescription
	gh, video, img := p.GithubURL, p.VideoURL, p.ImageURL
	techs := slices.Clone(p.Technologies)
	if techs == nil {
		techs = []string{}
	}
	cats := slices.Clone(p.CategoryIDs)
	if cats == nil {
		cats = []uuid.UUID{}
	}
	return models.PortfolioPatch{
		Title:           &title,
		Description:     &desc,
		LongDescription: &long,
		GithubURL:       &gh,
		VideoURL:        &video,
		ImageURL:        &img,
		Technologies:    &techs,
		CategoryIDs:     &cats,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
