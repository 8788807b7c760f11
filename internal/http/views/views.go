// Package views holds the server-rendered pages, embedded so the binary
// ships self-contained.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(files, "templates/*.html"))
}
