// Package web serves the embedded browser front end.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed assets
var assets embed.FS

// Assets returns the front end files rooted at the asset directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Mount registers / and /main.js on r.
func Mount(r chi.Router) {
	files := Assets()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, files, "index.html")
	})
	r.Get("/main.js", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, files, "main.js")
	})
}
