// Package router sets up all HTTP routes and middleware chains for the
// portfolio site. Public pages, the JSON endpoints and the admin area share
// one chi router; the admin screens sit behind the session gate.
package router

import (
	"io/fs"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"skajny/internal/handlers"
	"skajny/internal/imaging"
	"skajny/internal/middleware"
	"skajny/web"
)

// maxBodySize caps every request body ahead of the CSRF check, which may
// parse the form. The portfolio dialog with an image is the largest.
const maxBodySize = imaging.MaxUploadSize + 1<<20

// Options tunes the middleware stack.
type Options struct {
	// SecureCookies marks the CSRF cookie Secure (HTTPS-only).
	SecureCookies bool
	// LoginLimiter and ContactLimiter throttle the two public POST forms.
	// Nil disables throttling.
	LoginLimiter   *middleware.RateLimiter
	ContactLimiter *middleware.RateLimiter
}

// DefaultLimiters returns the production throttles: ten sign-in attempts
// and five contact messages per client IP and window. Forwarding headers
// are honoured only from the trusted proxies.
func DefaultLimiters(trusted []netip.Prefix) (login, contact *middleware.RateLimiter) {
	login = middleware.NewRateLimiter(10, 15*time.Minute).TrustProxies(trusted)
	contact = middleware.NewRateLimiter(5, 10*time.Minute).TrustProxies(trusted)
	return login, contact
}

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionLoader, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(sessions))
		r.Use(chimw.RequestSize(maxBodySize))
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Public site.
		r.Get("/", public.Home)
		r.Get("/o-mne", public.About)
		r.Get("/sluzby", public.Services)
		r.Get("/portfolio", public.Portfolio)
		r.Get("/portfolio/{id}", public.PortfolioDetail)
		r.Get("/kontakt", public.Contact)
		r.With(limit(opts.ContactLimiter)).Post("/kontakt", public.ContactSubmit)

		// Read-only JSON mirror of the gateway reads.
		r.Route("/api", func(r chi.Router) {
			r.Get("/about", public.APIAbout)
			r.Get("/portfolio", public.APIPortfolio)
			r.Get("/categories", public.APICategories)
		})

		r.Route("/admin", func(r chi.Router) {
			// Sign-in, reachable without a session.
			r.Get("/", auth.LoginPage)
			r.With(limit(opts.LoginLimiter)).Post("/", auth.LoginSubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.With(limit(opts.LoginLimiter)).Post("/2fa/verify", auth.TwoFAVerifySubmit)
			r.Post("/odhlasit", auth.Logout)
			r.Post("/logout", auth.Logout)

			// Everything else requires an authenticated session.
			r.Group(func(r chi.Router) {
				r.Use(middleware.SessionGate(nil))

				r.Get("/2fa/setup", auth.TwoFASetupPage)
				r.Post("/2fa/setup", auth.TwoFASetupSubmit)
				r.Post("/2fa/disable", auth.TwoFADisable)

				messages := func(r chi.Router) {
					r.Get("/", admin.MessagesList)
					r.Get("/{id}", admin.MessageDetail)
				}
				r.Route("/zpravy", messages)
				r.Route("/messages", messages)

				r.Route("/portfolio", func(r chi.Router) {
					r.Get("/", admin.PortfolioList)
					r.Post("/", admin.PortfolioCreate)
					r.Get("/new", admin.PortfolioNew)
					r.Post("/technologies", admin.PortfolioTechnologies)
					r.Get("/{id}", admin.PortfolioEdit)
					r.Post("/{id}", admin.PortfolioUpdate)
					r.Get("/{id}/delete", admin.PortfolioConfirmDelete)
					r.Post("/{id}/delete", admin.PortfolioDelete)
				})

				categories := func(r chi.Router) {
					r.Get("/", admin.CategoriesList)
					r.Post("/", admin.CategoryCreate)
					r.Get("/new", admin.CategoryNew)
					r.Get("/{id}", admin.CategoryEdit)
					r.Post("/{id}", admin.CategoryUpdate)
					r.Get("/{id}/delete", admin.CategoryConfirmDelete)
					r.Post("/{id}/delete", admin.CategoryDelete)
				}
				r.Route("/kategorie", categories)
				r.Route("/categories", categories)
			})
		})
	})

	// Unknown paths go back to the home page.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return r
}

// limit applies rl when it is configured.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// staticHandler serves the embedded stylesheet and favicon.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
