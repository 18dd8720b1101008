package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"skajny/internal/models"
)

// aboutResponse is the public summary served by /api/about. Services are
// listed by title only; the descriptions belong to the services page.
type aboutResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Services    []string `json:"services"`
}

// APIAbout returns the site owner's name, description and service titles.
func (p *Public) APIAbout(w http.ResponseWriter, r *http.Request) {
	services := make([]string, 0, len(p.site.Services))
	for _, s := range p.site.Services {
		services = append(services, s.Title)
	}
	writeJSON(w, http.StatusOK, aboutResponse{
		Name:        p.site.Name,
		Description: p.site.Description,
		Services:    services,
	})
}

// APIPortfolio returns the portfolio items, newest first, optionally
// filtered by ?category=.
func (p *Public) APIPortfolio(w http.ResponseWriter, r *http.Request) {
	filter, _ := categoryFilter(r)
	items, err := p.portfolio.List(r.Context(), filter)
	if canceled(r.Context(), err) {
		return
	}
	if err != nil {
		slog.Error("api list portfolio failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "portfolio unavailable"})
		return
	}
	if items == nil {
		items = []models.PortfolioItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// APICategories returns all categories ordered by name.
func (p *Public) APICategories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.categories.List(r.Context())
	if canceled(r.Context(), err) {
		return
	}
	if err != nil {
		slog.Error("api list categories failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "categories unavailable"})
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json failed", "error", err)
	}
}
