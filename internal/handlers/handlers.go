// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the public site and the
// admin area. Handlers are grouped by concern (admin, auth, public) and
// talk to the data layer only through the small gateway interfaces below,
// so each screen can be exercised against an in-memory fake.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"skajny/internal/models"
	"skajny/internal/render"
	"skajny/internal/store"
)

// CategoryGateway is the remote data gateway for categories.
type CategoryGateway interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PortfolioGateway is the remote data gateway for portfolio items.
type PortfolioGateway interface {
	List(ctx context.Context, filter models.PortfolioFilter) ([]models.PortfolioItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error)
	Create(ctx context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error)
	Update(ctx context.Context, id uuid.UUID, patch models.PortfolioPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageGateway is the remote data gateway for contact messages.
type MessageGateway interface {
	List(ctx context.Context) ([]models.Message, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Send(ctx context.Context, m models.NewMessage) store.SendResult
}

// ImageStore keeps uploaded portfolio images. *storage.Client satisfies it.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	ExtractS3Key(rawURL string) (string, bool)
}

// LoadError is the banner a list screen shows when its fetch failed.
type LoadError struct {
	Message  string
	RetryURL string
}

// Notices shown after a redirect back to a list, keyed by query value.
var (
	errorNotices = map[string]string{
		"delete":   "Smazání se nezdařilo. Zkuste to prosím znovu.",
		"notfound": "Záznam už neexistuje.",
		"load":     "Záznam se nepodařilo načíst. Zkuste to prosím znovu.",
	}
	okNotices = map[string]string{
		"saved":   "Změny byly uloženy.",
		"deleted": "Záznam byl smazán.",
	}
)

// noticeFlashes turns the ?ok= and ?error= parameters of a list URL into
// flash messages.
func noticeFlashes(r *http.Request) []render.Flash {
	var flashes []render.Flash
	q := r.URL.Query()
	if msg, ok := okNotices[q.Get("ok")]; ok {
		flashes = append(flashes, render.Flash{Type: "success", Message: msg, Transient: true})
	}
	if msg, ok := errorNotices[q.Get("error")]; ok {
		flashes = append(flashes, render.Flash{Type: "error", Message: msg})
	}
	return flashes
}

// withNotice appends a notice parameter to target.
func withNotice(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// redirect sends the browser to target. HTMX requests get an HX-Redirect
// header so the whole page navigates instead of swapping the response
// into the dialog.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// htmxTarget returns the id of the element an HTMX request will swap.
func htmxTarget(r *http.Request) string {
	if !isHTMX(r) {
		return ""
	}
	return r.Header.Get("HX-Target")
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// canceled reports whether the request was abandoned by the client, in
// which case any result it produced must be discarded.
func canceled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || ctx.Err() != nil
}

// parseForm parses urlencoded and multipart bodies alike.
func parseForm(r *http.Request, maxMemory int64) error {
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}
