// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates assets
var FS embed.FS

// Assets returns the static files served under /assets.
func Assets() fs.FS {
	fsys, err := fs.Sub(FS, "assets")
	if err != nil {
		panic(err)
	}

	return fsys
}
