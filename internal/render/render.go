// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin area. It supports full-page and HTMX partial rendering,
// automatically detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"skajny/internal/config"
	"skajny/internal/markdown"
	"skajny/internal/middleware"
	"skajny/internal/session"
)

//go:embed templates
var templatesFS embed.FS

// layouts are the template directories that own a base.html.
var layouts = []string{"admin", "public"}

// PageData holds all data passed to templates.
type PageData struct {
	Title         string         // Page title for <title> tag
	Section       string         // Active navigation section (e.g., "portfolio")
	Session       *session.Data  // Current user session (nil if unauthenticated)
	Authenticated bool           // Whether the floating admin link points into the admin area
	CSRFToken     string         // CSRF token for forms and HTMX headers
	Site          *config.Profile
	Data          map[string]any // Page-specific data
	Flashes       []Flash        // One-time notification messages
	Status        int            // Response status; 0 means 200
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
	// Transient flashes fade out on their own after a few seconds.
	Transient bool
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	site      *config.Profile
}

// standaloneTemplates lists templates that render as full HTML pages
// without a base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"admin/login":      true,
	"admin/2fa_setup":  true,
	"admin/2fa_verify": true,
}

// New parses every page template paired with its layout and the shared
// partials. site is exposed to all templates as .Site.
// When devMode is true, templates load the unminified HTMX build.
func New(devMode bool, site *config.Profile) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		site:      site,
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "active"
				}
				return ""
			},
			// deref safely dereferences a string pointer for use in templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			"isDev": func() bool {
				return devMode
			},
			"czDate":   CzechDate,
			"markdown": markdown.Render,
			// hasID reports whether ids contains id, for checkbox state.
			"hasID": func(ids []uuid.UUID, id uuid.UUID) bool {
				return slices.Contains(ids, id)
			},
			"join": strings.Join,
		},
	}

	for _, layout := range layouts {
		entries, err := fs.ReadDir(templatesFS, "templates/"+layout)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates: %w", err)
		}

		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == "base.html" || path.Ext(name) != ".html" {
				continue
			}
			key := layout + "/" + strings.TrimSuffix(name, ".html")

			files := []string{"templates/partials/*.html", "templates/" + layout + "/" + name}
			root := name
			if !standaloneTemplates[key] {
				files = append([]string{"templates/" + layout + "/base.html"}, files...)
				root = "base.html"
			}

			tmpl, err := template.New(root).Funcs(r.funcMap).ParseFS(templatesFS, files...)
			if err != nil {
				return nil, fmt.Errorf("parse template %s: %w", key, err)
			}
			r.templates[key] = tmpl
		}
	}

	return r, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	execName := "base.html"
	if standaloneTemplates[name] {
		execName = path.Base(name) + ".html"
	}
	if isHTMX(r) {
		execName = "content"
	}
	rn.execute(w, r, name, execName, data)
}

// Fragment renders a single named block of a page template, e.g. the
// portfolio grid after a filter change or the tag editor.
func (rn *Renderer) Fragment(w http.ResponseWriter, r *http.Request, name, block string, data *PageData) {
	rn.execute(w, r, name, block, data)
}

func (rn *Renderer) execute(w http.ResponseWriter, r *http.Request, name, execName string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	rn.inject(r, data)

	// Buffer so a failing template never leaves a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("template execution failed", "template", name, "block", execName, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Status != 0 {
		w.WriteHeader(data.Status)
	}
	buf.WriteTo(w)
}

// inject fills the request-scoped fields of data.
func (rn *Renderer) inject(r *http.Request, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	data.Authenticated = middleware.IsAuthenticated(r.Context())
	if data.Site == nil {
		data.Site = rn.site
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// prague is the display zone for timestamps.
var prague = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// CzechDate formats t the way Czech readers expect, e.g. "4. 5. 2026 10:30".
func CzechDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	l := t.In(prague)
	return fmt.Sprintf("%d. %d. %d %02d:%02d", l.Day(), int(l.Month()), l.Year(), l.Hour(), l.Minute())
}
