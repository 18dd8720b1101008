package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"skajny/internal/form"
	"skajny/internal/render"
	"skajny/internal/store"
)

const categoriesPath = "/admin/kategorie"

// CategoriesList renders the category management screen.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	cats, err := a.categories.List(r.Context())
	if err != nil {
		if canceled(r.Context(), err) {
			return
		}
		slog.Error("list categories failed", "error", err)
		data["LoadError"] = LoadError{Message: "Kategorie se nepodařilo načíst.", RetryURL: categoriesPath}
	}
	data["Categories"] = cats

	a.renderer.Page(w, r, "admin/categories_list", &render.PageData{
		Title:   "Kategorie",
		Section: "categories",
		Data:    data,
		Flashes: noticeFlashes(r),
	})
}

// CategoryNew opens an empty category dialog.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.categoryForm(w, r, "", form.Category{}, form.Errors{}, "")
}

// CategoryEdit opens the dialog pre-populated from the stored category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		redirect(w, r, withNotice(categoriesPath, "error", "load"))
		return
	}
	if c == nil {
		redirect(w, r, withNotice(categoriesPath, "error", "notfound"))
		return
	}
	a.categoryForm(w, r, id.String(), form.CategoryFrom(c), form.Errors{}, "")
}

// CategoryCreate handles the dialog submission for a new category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := form.ParseCategory(r.PostForm)
	if errs := f.Validate(); len(errs) > 0 {
		a.categoryForm(w, r, "", f, errs, "")
		return
	}

	created, err := a.categories.Create(r.Context(), f.Model())
	if err != nil {
		slog.Error("create category failed", "error", err)
		a.categoryForm(w, r, "", f, form.Errors{}, "Kategorii se nepodařilo uložit. Zkuste to prosím znovu.")
		return
	}
	slog.Info("category created", "id", created.ID, "name", created.Name)
	redirect(w, r, withNotice(categoriesPath, "ok", "saved"))
}

// CategoryUpdate handles the dialog submission for an existing category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := form.ParseCategory(r.PostForm)
	if errs := f.Validate(); len(errs) > 0 {
		a.categoryForm(w, r, id.String(), f, errs, "")
		return
	}

	if err := a.categories.Update(r.Context(), id, f.Patch()); err != nil {
		slog.Error("update category failed", "error", err, "id", id)
		msg := "Kategorii se nepodařilo uložit. Zkuste to prosím znovu."
		if errors.Is(err, store.ErrNotFound) {
			msg = "Kategorie mezitím byla smazána."
		}
		a.categoryForm(w, r, id.String(), f, form.Errors{}, msg)
		return
	}
	redirect(w, r, withNotice(categoriesPath, "ok", "saved"))
}

// CategoryConfirmDelete asks for confirmation before deleting a category.
func (a *Admin) CategoryConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		redirect(w, r, withNotice(categoriesPath, "error", "load"))
		return
	}
	if c == nil {
		redirect(w, r, withNotice(categoriesPath, "error", "notfound"))
		return
	}
	a.confirmDelete(w, r, "categories", "Kategorie bude trvale odstraněna:", c.Name, categoriesPath+"/"+id.String()+"/delete")
}

// CategoryDelete deletes a category once the confirmation was accepted.
// Portfolio items keep the id; it is skipped when displayed.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if !confirmed(r) {
		redirect(w, r, categoriesPath)
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
		redirect(w, r, withNotice(categoriesPath, "error", "delete"))
		return
	}
	redirect(w, r, withNotice(categoriesPath, "ok", "deleted"))
}

func (a *Admin) categoryForm(w http.ResponseWriter, r *http.Request, id string, f form.Category, errs form.Errors, msg string) {
	title := "Nová kategorie"
	if id != "" {
		title = "Upravit kategorii"
	}
	a.renderer.Page(w, r, "admin/category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Data: map[string]any{
			"ID":     id,
			"Form":   f,
			"Errors": errs,
			"Error":  msg,
		},
	})
}
