// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the shared infrastructure for handler tests:
// in-memory gateways that stand in for PostgreSQL and Valkey, and helpers
// to build requests the way the router and middleware would.
package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"skajny/internal/config"
	"skajny/internal/models"
	"skajny/internal/render"
	"skajny/internal/session"
	"skajny/internal/store"
)

var errGateway = errors.New("gateway unavailable")

// --- Categories ---

type fakeCategories struct {
	mu        sync.Mutex
	items     []models.Category
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	created   []models.Category
	deleted   []uuid.UUID
}

func (f *fakeCategories) List(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := slices.Clone(f.items)
	slices.SortFunc(out, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.items = append(f.items, created)
	f.created = append(f.created, created)
	return &created, nil
}

func (f *fakeCategories) Update(_ context.Context, id uuid.UUID, patch models.CategoryPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if patch.Name != nil {
			f.items[i].Name = *patch.Name
		}
		if patch.Description != nil {
			f.items[i].Description = patch.Description
		}
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	f.items = slices.DeleteFunc(f.items, func(c models.Category) bool { return c.ID == id })
	return nil
}

// --- Portfolio ---

type fakePortfolio struct {
	mu        sync.Mutex
	items     []models.PortfolioItem
	listErr   error
	createErr error
	created   []models.PortfolioItem
	updated   map[uuid.UUID]models.PortfolioPatch
	deleted   []uuid.UUID
}

func (f *fakePortfolio) List(ctx context.Context, filter models.PortfolioFilter) ([]models.PortfolioItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.PortfolioItem
	for _, it := range f.items {
		if filter.CategoryID == nil || it.InCategory(*filter.CategoryID) {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b models.PortfolioItem) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f *fakePortfolio) FindByID(_ context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, nil
}

func (f *fakePortfolio) Create(_ context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *p
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.items = append(f.items, created)
	f.created = append(f.created, created)
	return &created, nil
}

func (f *fakePortfolio) Update(_ context.Context, id uuid.UUID, patch models.PortfolioPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id {
			if f.updated == nil {
				f.updated = map[uuid.UUID]models.PortfolioPatch{}
			}
			f.updated[id] = patch
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakePortfolio) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	f.items = slices.DeleteFunc(f.items, func(it models.PortfolioItem) bool { return it.ID == id })
	return nil
}

// --- Messages ---

type fakeMessages struct {
	mu      sync.Mutex
	items   []models.Message
	listErr error
	sendErr error
	sent    []models.NewMessage
}

func (f *fakeMessages) List(ctx context.Context) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.items), nil
}

func (f *fakeMessages) FindByID(_ context.Context, id uuid.UUID) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.items {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMessages) Send(_ context.Context, m models.NewMessage) store.SendResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	if f.sendErr != nil {
		return store.SendResult{Success: false, Err: f.sendErr}
	}
	id := uuid.New()
	f.items = append([]models.Message{{
		ID: id, Name: m.Name, Email: m.Email, Subject: m.Subject, Body: m.Body, CreatedAt: time.Now(),
	}}, f.items...)
	return store.SendResult{Success: true, ID: id}
}

// --- Images ---

type uploadCall struct {
	Key         string
	ContentType string
	Size        int64
}

type fakeImages struct {
	mu      sync.Mutex
	uploads []uploadCall
	deleted []string
}

func (f *fakeImages) Upload(_ context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	io.Copy(io.Discard, body)
	f.uploads = append(f.uploads, uploadCall{Key: key, ContentType: contentType, Size: size})
	return "https://cdn.skajny.cz/" + key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) ExtractS3Key(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, "https://cdn.skajny.cz/")
	return key, ok && key != ""
}

// --- Environment ---

type testEnv struct {
	Categories *fakeCategories
	Portfolio  *fakePortfolio
	Messages   *fakeMessages
	Images     *fakeImages
	Admin      *Admin
	Public     *Public
}

func testProfile() *config.Profile {
	return &config.Profile{
		Name:        "Skajny Portfolio",
		Description: "Vývojář webových aplikací.",
		Services:    []config.Service{{Title: "Vývoj webových aplikací", Description: "Od návrhu po nasazení."}},
		Contact:     config.Contact{Email: "info@skajny.cz"},
	}
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rn, err := render.New(false, testProfile())
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return rn
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		Categories: &fakeCategories{},
		Portfolio:  &fakePortfolio{},
		Messages:   &fakeMessages{},
		Images:     &fakeImages{},
	}
	rn := newTestRenderer(t)
	env.Admin = NewAdmin(rn, env.Categories, env.Portfolio, env.Messages, env.Images)
	env.Public = NewPublic(rn, testProfile(), env.Categories, env.Portfolio, env.Messages)
	return env
}

// authedRequest returns a request carrying an authenticated session state,
// as LoadSession would leave it for a signed-in admin.
func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	st := session.State{
		Status: session.StatusAuthenticated,
		Data:   &session.Data{UserID: uuid.New(), Email: "admin@skajny.cz"},
	}
	return req.WithContext(session.WithState(req.Context(), st))
}

// formRequest builds an authenticated urlencoded POST.
func formRequest(target string, values url.Values) *http.Request {
	req := authedRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withID sets the {id} URL parameter the router would have extracted.
func withID(req *http.Request, id uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func htmx(req *http.Request, target string) *http.Request {
	req.Header.Set("HX-Request", "true")
	if target != "" {
		req.Header.Set("HX-Target", target)
	}
	return req
}

func strPtr(s string) *string { return &s }

// multipartBody encodes fields plus an optional "image" file part.
func multipartBody(t *testing.T, fields url.Values, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "projekt.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(image)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
