// Package web holds the HTML templates rendered by the server.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses every page. Pages are addressed by file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templates, "templates/*.html")
}
