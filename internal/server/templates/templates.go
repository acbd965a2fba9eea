// Package templates embeds the HTML pages of the dashboard.
package templates

import (
	"embed"
	"html/template"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

//go:embed *.html
var files embed.FS

// Parse loads every page together with the shared layout blocks.
func Parse() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"amount": models.FormatAmount,
		"float":  models.FormatFloat,
	}).ParseFS(files, "*.html")
}
