// Package form holds the admin and contact form state as immutable values.
// Every edit produces a new value through Reduce; nothing mutates a form in
// place, so a re-rendered dialog always reflects exactly one state.
package form

import (
	"net/url"
	"slices"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
)

// State is implemented by every form value. With returns a copy of the form
// with one field replaced; unknown field names return the form unchanged.
type State[T any] interface {
	With(field, value string) T
}

// Reduce is the single entry point for field edits: (state, field, value) -> state.
func Reduce[T State[T]](state T, field, value string) T {
	return state.With(field, value)
}

// Errors maps a field name to a Czech validation message.
type Errors map[string]string

// Field names shared by the form values and the HTML inputs.
const (
	FieldName            = "name"
	FieldDescription     = "description"
	FieldTitle           = "title"
	FieldLongDescription = "long_description"
	FieldGithubURL       = "github_url"
	FieldVideoURL        = "video_url"
	FieldImageURL        = "image_url"
	FieldTechInput       = "tech_input"
	FieldEmail           = "email"
	FieldSubject         = "subject"
	FieldMessage         = "message"
)

const msgRequired = "Toto pole je povinné."

func required(errs Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = msgRequired
	}
}

// optionalURL accepts an empty value or an absolute http(s) URL.
func optionalURL(errs Errors, field, value string) {
	if value == "" {
		return
	}
	if !govalidator.IsRequestURL(value) {
		errs[field] = "Zadejte platnou adresu URL."
	}
}

// AddTechnology appends a trimmed tag unless it is empty or already present.
// The input slice is never modified.
func AddTechnology(techs []string, raw string) []string {
	tag := strings.TrimSpace(raw)
	if tag == "" || slices.Contains(techs, tag) {
		return slices.Clone(techs)
	}
	return append(slices.Clone(techs), tag)
}

// RemoveTechnology drops every tag that equals value exactly.
func RemoveTechnology(techs []string, value string) []string {
	out := make([]string, 0, len(techs))
	for _, t := range techs {
		if t != value {
			out = append(out, t)
		}
	}
	return out
}

// parseIDs keeps the valid category ids from a multi-value form field,
// dropping duplicates while preserving order.
func parseIDs(values []string) []uuid.UUID {
	var out []uuid.UUID
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// collectTechnologies rebuilds the tag list from repeated hidden inputs,
// applying the same rules as AddTechnology.
func collectTechnologies(v url.Values) []string {
	techs := []string{}
	for _, t := range v["technologies"] {
		techs = AddTechnology(techs, t)
	}
	return techs
}
