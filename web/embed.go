// Package web provides the embedded static assets (stylesheet, favicon)
// shared by the public site and the admin area. They are served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
