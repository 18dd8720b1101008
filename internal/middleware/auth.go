// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"skajny/internal/session"
)

// LoginPath is the sign-in entry point of the admin area.
const LoginPath = "/admin"

// SessionLoader looks up the session for a request. *session.Store
// satisfies it.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession resolves the session status of every request and stores it
// in the request context as a session.State. It never blocks a request: a
// lookup failure leaves the status at loading.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Error("session lookup failed", "error", err, "path", r.URL.Path)
			}
			ctx := session.WithState(r.Context(), session.Resolve(data, err))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionGate protects admin screens. Only an authenticated request reaches
// next. An unauthenticated request is redirected to the sign-in page with
// the requested path attached as ?next=. While the status is still loading
// a neutral placeholder is rendered and no redirect happens.
func SessionGate(placeholder http.Handler) func(http.Handler) http.Handler {
	if placeholder == nil {
		placeholder = http.HandlerFunc(GatePlaceholder)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch session.FromContext(r.Context()).Status {
			case session.StatusAuthenticated:
				next.ServeHTTP(w, r)
			case session.StatusUnauthenticated:
				redirectToLogin(w, r)
			default:
				placeholder.ServeHTTP(w, r)
			}
		})
	}
}

// LoginURL returns the sign-in URL that remembers the requested path.
func LoginURL(r *http.Request) string {
	return LoginPath + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginURL(r)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GatePlaceholder is the default loading screen: a 503 that refreshes
// itself until the session status can be resolved.
func GatePlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "2")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`<!DOCTYPE html><html lang="cs"><head><meta charset="utf-8">` +
		`<meta http-equiv="refresh" content="2"><title>Načítání…</title></head>` +
		`<body><p role="status">Načítání…</p></body></html>`))
}

// SessionFromCtx returns the session data loaded for the request, or nil.
// The data may belong to a sign-in that still awaits its TOTP code; use
// IsAuthenticated to check access.
func SessionFromCtx(ctx context.Context) *session.Data {
	return session.FromContext(ctx).Data
}

// IsAuthenticated reports whether the request carries a signed-in session.
func IsAuthenticated(ctx context.Context) bool {
	return session.FromContext(ctx).Status == session.StatusAuthenticated
}
