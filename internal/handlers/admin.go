// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"

	"skajny/internal/render"
)

// Admin groups the admin area handlers (inbox, portfolio, categories) and
// their gateways.
type Admin struct {
	renderer   *render.Renderer
	categories CategoryGateway
	portfolio  PortfolioGateway
	messages   MessageGateway
	images     ImageStore
}

// NewAdmin creates a new Admin handler group. images may be nil when no
// object storage is configured; the upload field is hidden then.
func NewAdmin(renderer *render.Renderer, categories CategoryGateway, portfolio PortfolioGateway, messages MessageGateway, images ImageStore) *Admin {
	return &Admin{
		renderer:   renderer,
		categories: categories,
		portfolio:  portfolio,
		messages:   messages,
		images:     images,
	}
}

// confirmDelete renders the second step of a delete: a dialog asking the
// user to confirm before anything is removed.
func (a *Admin) confirmDelete(w http.ResponseWriter, r *http.Request, section, prompt, name, action string) {
	a.renderer.Page(w, r, "admin/confirm_delete", &render.PageData{
		Title:   "Smazat",
		Section: section,
		Data: map[string]any{
			"Prompt": prompt,
			"Name":   name,
			"Action": action,
		},
	})
}

// confirmed reports whether the confirmation dialog was answered with yes.
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// listReturnURL returns the list the user came from, including its query
// string (the active filter), or base when the origin is unknown.
func listReturnURL(r *http.Request, base string) string {
	origin := r.Header.Get("HX-Current-URL")
	if origin == "" {
		origin = r.Referer()
	}
	u, err := url.Parse(origin)
	if err != nil || u.Path != base {
		return base
	}
	q := u.Query()
	q.Del("ok")
	q.Del("error")
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}
