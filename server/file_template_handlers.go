package server

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var pageTemplates embed.FS

// ParseTemplate loads a page template embedded under templates/
func ParseTemplate(name string) (*template.Template, error) {
	return template.ParseFS(pageTemplates, "templates/"+name)
}
