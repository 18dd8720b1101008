// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"skajny/internal/config"
	"skajny/internal/form"
	"skajny/internal/models"
	"skajny/internal/render"
)

// recentCount is how many projects the home page previews.
const recentCount = 3

// Public groups the handlers of the public site: the marketing pages, the
// portfolio gallery and the contact form.
type Public struct {
	renderer   *render.Renderer
	site       *config.Profile
	categories CategoryGateway
	portfolio  PortfolioGateway
	messages   MessageGateway
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, site *config.Profile, categories CategoryGateway, portfolio PortfolioGateway, messages MessageGateway) *Public {
	return &Public{
		renderer:   renderer,
		site:       site,
		categories: categories,
		portfolio:  portfolio,
		messages:   messages,
	}
}

// Home renders the landing page with a preview of the latest projects.
// The preview is optional; a failed fetch only hides it.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	items, err := p.portfolio.List(r.Context(), models.PortfolioFilter{})
	if err != nil {
		slog.Warn("list recent projects failed", "error", err)
	}
	if len(items) > 0 {
		cats, err := p.categories.List(r.Context())
		if err != nil {
			slog.Warn("list categories for home failed", "error", err)
		}
		data["Recent"] = itemViews(items[:min(len(items), recentCount)], cats)
	}
	p.renderer.Page(w, r, "public/home", &render.PageData{Section: "home", Data: data})
}

// About renders the "O mně" page from the site profile.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "public/about", &render.PageData{Title: "O mně", Section: "about"})
}

// Services renders the "Služby" page from the site profile.
func (p *Public) Services(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "public/services", &render.PageData{Title: "Služby", Section: "services"})
}

// Portfolio renders the project gallery with its category tabs. A tab
// click only re-renders the gallery; an abandoned request is discarded.
func (p *Public) Portfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, active := categoryFilter(r)
	data := map[string]any{"ActiveCategory": active}

	cats, err := p.categories.List(ctx)
	if err != nil && !canceled(ctx, err) {
		slog.Warn("list categories for gallery failed", "error", err)
	}
	data["Categories"] = cats

	items, err := p.portfolio.List(ctx, filter)
	if canceled(ctx, err) {
		return
	}
	if err != nil {
		slog.Error("list gallery failed", "error", err, "category", active)
		data["LoadError"] = LoadError{Message: "Projekty se nepodařilo načíst.", RetryURL: r.URL.RequestURI()}
	}
	data["Items"] = itemViews(items, cats)

	page := &render.PageData{Title: "Portfolio", Section: "portfolio", Data: data}
	if htmxTarget(r) == "gallery" {
		p.renderer.Fragment(w, r, "public/portfolio", "gallery", page)
		return
	}
	p.renderer.Page(w, r, "public/portfolio", page)
}

// PortfolioDetail renders one project in a dialog, with its long
// description rendered from Markdown.
func (p *Public) PortfolioDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/portfolio", http.StatusSeeOther)
		return
	}
	item, err := p.portfolio.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find project failed", "error", err, "id", id)
		http.Error(w, "Projekt se nepodařilo načíst.", http.StatusServiceUnavailable)
		return
	}
	if item == nil {
		http.Redirect(w, r, "/portfolio", http.StatusSeeOther)
		return
	}
	cats, err := p.categories.List(r.Context())
	if err != nil {
		slog.Warn("list categories for project failed", "error", err)
	}

	p.renderer.Page(w, r, "public/portfolio_detail", &render.PageData{
		Title:   item.Title,
		Section: "portfolio",
		Data:    map[string]any{"Item": itemViews([]models.PortfolioItem{*item}, cats)[0]},
	})
}

// Contact renders the contact page with an empty form.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "public/contact", &render.PageData{
		Title:   "Kontakt",
		Section: "contact",
		Data:    map[string]any{"Form": form.Contact{}, "Errors": form.Errors{}},
	})
}

// ContactSubmit stores a contact message. On success the form is reset;
// on failure the submitted values stay so nothing typed is lost.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := form.ParseContact(r.PostForm)

	var flash render.Flash
	errs := f.Validate()
	switch {
	case len(errs) > 0:
		flash = render.Flash{Type: "error", Message: "Zkontrolujte prosím vyplněná pole.", Transient: true}
	default:
		res := p.messages.Send(r.Context(), f.NewMessage())
		if res.Success {
			slog.Info("contact message received", "id", res.ID)
			f = form.Contact{}
			flash = render.Flash{Type: "success", Message: "Děkuji za zprávu! Ozvu se vám co nejdříve.", Transient: true}
		} else {
			slog.Error("contact message failed", "error", res.Err)
			flash = render.Flash{Type: "error", Message: "Zprávu se nepodařilo odeslat. Zkuste to prosím znovu.", Transient: true}
		}
	}

	page := &render.PageData{
		Title:   "Kontakt",
		Section: "contact",
		Flashes: []render.Flash{flash},
		Data:    map[string]any{"Form": f, "Errors": errs},
	}
	if isHTMX(r) {
		p.renderer.Fragment(w, r, "public/contact", "contact_form", page)
		return
	}
	p.renderer.Page(w, r, "public/contact", page)
}
