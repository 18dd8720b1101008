package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"skajny/internal/form"
	"skajny/internal/imaging"
	"skajny/internal/models"
	"skajny/internal/render"
	"skajny/internal/slug"
	"skajny/internal/store"
)

const (
	portfolioPath = "/admin/portfolio"

	// allCategories is the filter value that clears the category filter.
	allCategories = "all"
)

// ItemView is a portfolio item with its category ids resolved to names.
type ItemView struct {
	Item       models.PortfolioItem
	Categories []models.Category
}

// itemViews resolves category names best-effort; dangling ids are skipped.
func itemViews(items []models.PortfolioItem, cats []models.Category) []ItemView {
	idx := models.IndexCategories(cats)
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{Item: it, Categories: idx.Resolve(it.CategoryIDs)})
	}
	return views
}

// categoryFilter reads ?category=. Empty, "all" and malformed values all
// clear the filter.
func categoryFilter(r *http.Request) (models.PortfolioFilter, string) {
	raw := r.URL.Query().Get("category")
	if raw == "" || raw == allCategories {
		return models.PortfolioFilter{}, allCategories
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return models.PortfolioFilter{}, allCategories
	}
	return models.PortfolioFilter{CategoryID: &id}, id.String()
}

// PortfolioList renders the portfolio management screen. A request from
// the filter select only re-renders the grid. If the client abandons the
// request (a newer selection superseded it) the result is discarded.
func (a *Admin) PortfolioList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, active := categoryFilter(r)

	data := map[string]any{"ActiveCategory": active}

	cats, err := a.categories.List(ctx)
	if err != nil && !canceled(ctx, err) {
		slog.Warn("list categories for portfolio failed", "error", err)
	}
	data["Categories"] = cats

	items, err := a.portfolio.List(ctx, filter)
	if canceled(ctx, err) {
		slog.Debug("portfolio list abandoned", "category", active)
		return
	}
	if err != nil {
		slog.Error("list portfolio failed", "error", err, "category", active)
		data["LoadError"] = LoadError{Message: "Projekty se nepodařilo načíst.", RetryURL: r.URL.RequestURI()}
	}
	data["Items"] = itemViews(items, cats)

	page := &render.PageData{
		Title:   "Portfolio",
		Section: "portfolio",
		Data:    data,
		Flashes: noticeFlashes(r),
	}
	if htmxTarget(r) == "portfolio-grid" {
		a.renderer.Fragment(w, r, "admin/portfolio_list", "portfolio_grid", page)
		return
	}
	a.renderer.Page(w, r, "admin/portfolio_list", page)
}

// PortfolioNew opens an empty portfolio dialog.
func (a *Admin) PortfolioNew(w http.ResponseWriter, r *http.Request) {
	a.portfolioForm(w, r, "", form.Portfolio{}, form.Errors{}, "")
}

// PortfolioEdit opens the dialog pre-populated from the stored item.
func (a *Admin) PortfolioEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	item, err := a.portfolio.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find portfolio item failed", "error", err, "id", id)
		redirect(w, r, withNotice(portfolioPath, "error", "load"))
		return
	}
	if item == nil {
		redirect(w, r, withNotice(portfolioPath, "error", "notfound"))
		return
	}
	a.portfolioForm(w, r, id.String(), form.PortfolioFrom(item), form.Errors{}, "")
}

// PortfolioCreate handles the dialog submission for a new item.
func (a *Admin) PortfolioCreate(w http.ResponseWriter, r *http.Request) {
	f, ok := a.readPortfolioForm(w, r, "")
	if !ok {
		return
	}

	created, err := a.portfolio.Create(r.Context(), f.Model())
	if err != nil {
		slog.Error("create portfolio item failed", "error", err)
		a.portfolioForm(w, r, "", f, form.Errors{}, "Projekt se nepodařilo uložit. Zkuste to prosím znovu.")
		return
	}
	slog.Info("portfolio item created", "id", created.ID, "title", created.Title)
	redirect(w, r, withNotice(listReturnURL(r, portfolioPath), "ok", "saved"))
}

// PortfolioUpdate handles the dialog submission for an existing item.
func (a *Admin) PortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	previous, err := a.portfolio.FindByID(r.Context(), id)
	if err != nil {
		slog.Warn("load portfolio item before update failed", "error", err, "id", id)
	}

	f, ok := a.readPortfolioForm(w, r, id.String())
	if !ok {
		return
	}

	if err := a.portfolio.Update(r.Context(), id, f.Patch()); err != nil {
		slog.Error("update portfolio item failed", "error", err, "id", id)
		msg := "Projekt se nepodařilo uložit. Zkuste to prosím znovu."
		if errors.Is(err, store.ErrNotFound) {
			msg = "Projekt mezitím byl smazán."
		}
		a.portfolioForm(w, r, id.String(), f, form.Errors{}, msg)
		return
	}

	if previous != nil && previous.ImageURL != nil && *previous.ImageURL != f.ImageURL {
		a.deleteImage(r, *previous.ImageURL)
	}
	redirect(w, r, withNotice(listReturnURL(r, portfolioPath), "ok", "saved"))
}

// PortfolioConfirmDelete asks for confirmation before deleting an item.
func (a *Admin) PortfolioConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	item, err := a.portfolio.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find portfolio item failed", "error", err, "id", id)
		redirect(w, r, withNotice(portfolioPath, "error", "load"))
		return
	}
	if item == nil {
		redirect(w, r, withNotice(portfolioPath, "error", "notfound"))
		return
	}
	a.confirmDelete(w, r, "portfolio", "Projekt bude trvale odstraněn:", item.Title, portfolioPath+"/"+id.String()+"/delete")
}

// PortfolioDelete deletes an item once the confirmation was accepted, and
// removes its uploaded image from object storage.
func (a *Admin) PortfolioDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	back := listReturnURL(r, portfolioPath)
	if !confirmed(r) {
		redirect(w, r, back)
		return
	}

	item, err := a.portfolio.FindByID(r.Context(), id)
	if err != nil {
		slog.Warn("load portfolio item before delete failed", "error", err, "id", id)
	}
	if err := a.portfolio.Delete(r.Context(), id); err != nil {
		slog.Error("delete portfolio item failed", "error", err, "id", id)
		redirect(w, r, withNotice(back, "error", "delete"))
		return
	}
	if item != nil && item.ImageURL != nil {
		a.deleteImage(r, *item.ImageURL)
	}
	redirect(w, r, withNotice(back, "ok", "deleted"))
}

// PortfolioTechnologies applies one tag editor action to the submitted
// dialog state and returns the re-rendered editor. A "remove" value drops
// that tag; otherwise the pending tag input is committed.
func (a *Admin) PortfolioTechnologies(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, 1<<20); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := form.ParsePortfolio(r.Form)
	if tag := r.FormValue("remove"); tag != "" {
		f = f.RemoveTechnology(tag)
	} else {
		f = f.AddTechnology()
	}

	a.renderer.Fragment(w, r, "admin/portfolio_form", "tag_editor", &render.PageData{
		Data: map[string]any{"Form": f},
	})
}

// readPortfolioForm parses and validates the dialog, storing an uploaded
// image first when one is attached. It re-renders the dialog and returns
// false when the submission cannot be saved.
func (a *Admin) readPortfolioForm(w http.ResponseWriter, r *http.Request, id string) (form.Portfolio, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)
	if err := parseForm(r, imaging.MaxUploadSize); err != nil {
		slog.Warn("parse portfolio form failed", "error", err)
		a.portfolioFormError(w, r, id, "Formulář se nepodařilo odeslat. Obrázek může být příliš velký.")
		return form.Portfolio{}, false
	}
	f := form.ParsePortfolio(r.PostForm)
	if errs := f.Validate(); len(errs) > 0 {
		a.portfolioForm(w, r, id, f, errs, "")
		return f, false
	}

	imageURL, err := a.uploadImage(r, f.Title)
	if err != nil {
		slog.Error("portfolio image upload failed", "error", err)
		a.portfolioForm(w, r, id, f, form.Errors{}, "Obrázek se nepodařilo nahrát. Použijte JPEG, PNG, GIF nebo WebP.")
		return f, false
	}
	if imageURL != "" {
		f = form.Reduce(f, form.FieldImageURL, imageURL)
	}
	return f, true
}

// uploadImage processes the "image" file field, if any, and returns the
// public URL of the stored JPEG.
func (a *Admin) uploadImage(r *http.Request, title string) (string, error) {
	if a.images == nil || r.MultipartForm == nil {
		return "", nil
	}
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, imaging.MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return "", nil
	}
	if len(raw) > imaging.MaxUploadSize {
		return "", imaging.ErrTooLarge
	}

	img, err := imaging.Process(raw, imaging.CardVariant)
	if err != nil {
		return "", err
	}

	key := imageKey(title)
	url, err := a.images.Upload(r.Context(), key, img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data)))
	if err != nil {
		return "", err
	}
	slog.Info("portfolio image uploaded", "key", key, "width", img.Width, "height", img.Height)
	return url, nil
}

// imageKey names an uploaded image after the project title, with a random
// suffix so re-uploads never overwrite a cached object.
func imageKey(title string) string {
	base := slug.Generate(title)
	if base == "" {
		base = "projekt"
	}
	return fmt.Sprintf("portfolio/%s-%s.jpg", base, uuid.NewString()[:8])
}

// deleteImage removes an image from object storage when it lives there.
// Failures are logged only; the item change has already been saved.
func (a *Admin) deleteImage(r *http.Request, imageURL string) {
	if a.images == nil {
		return
	}
	key, ok := a.images.ExtractS3Key(imageURL)
	if !ok {
		return
	}
	if err := a.images.Delete(r.Context(), key); err != nil {
		slog.Warn("delete portfolio image failed", "error", err, "key", key)
	}
}

// portfolioFormError reports a submission that could not be read. An open
// dialog only gets the notice swapped in, so the fields keep what was typed;
// without HTMX the dialog is re-rendered from whatever part of the body
// was parsed.
func (a *Admin) portfolioFormError(w http.ResponseWriter, r *http.Request, id, msg string) {
	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "#portfolio-form-error")
		w.Header().Set("HX-Reswap", "innerHTML")
		a.renderer.Fragment(w, r, "admin/portfolio_form", "form_error", &render.PageData{
			Data: map[string]any{"Error": msg},
		})
		return
	}
	a.portfolioForm(w, r, id, form.ParsePortfolio(r.PostForm), form.Errors{}, msg)
}

func (a *Admin) portfolioForm(w http.ResponseWriter, r *http.Request, id string, f form.Portfolio, errs form.Errors, msg string) {
	cats, err := a.categories.List(r.Context())
	if err != nil {
		slog.Warn("list categories for portfolio dialog failed", "error", err)
	}
	title := "Nový projekt"
	if id != "" {
		title = "Upravit projekt"
	}
	a.renderer.Page(w, r, "admin/portfolio_form", &render.PageData{
		Title:   title,
		Section: "portfolio",
		Data: map[string]any{
			"ID":            id,
			"Form":          f,
			"Errors":        errs,
			"Error":         msg,
			"Categories":    cats,
			"UploadEnabled": a.images != nil,
		},
	})
}
