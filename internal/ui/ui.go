package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

// content embeds the quotation form.
//
//go:embed static/*
var content embed.FS

// Handler serves the embedded UI assets under /.
func Handler() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// unreachable with a correctly built binary
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
