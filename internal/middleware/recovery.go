// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a panic in a handler into a logged 500 so one broken
// request never takes the server down. http.ErrAbortHandler is re-raised
// because net/http uses it to abort a response silently.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"htmx", r.Header.Get("HX-Request") == "true",
				"stack", string(debug.Stack()),
			)
			http.Error(w, "Došlo k neočekávané chybě. Zkuste to prosím znovu.", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
