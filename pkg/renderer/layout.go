// Package renderer produces the fixed-layout PDF export of a resume.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"cvchef-backend/internal/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// RenderLayout renders the resume into the export layout HTML.
func RenderLayout(resume domain.ResumeFields) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "resume.html.tmpl", resume); err != nil {
		return "", fmt.Errorf("render layout: %w", err)
	}
	return buf.String(), nil
}

type pageBox struct {
	X, Y, Width, Height string
}

type pageData struct {
	Src template.URL
	Box pageBox
}

// renderPage wraps a PNG data URI in an A4 page at the given placement.
func renderPage(dataURI string, box Box) (string, error) {
	mm := func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
	data := pageData{
		Src: template.URL(dataURI),
		Box: pageBox{X: mm(box.X), Y: mm(box.Y), Width: mm(box.Width), Height: mm(box.Height)},
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}
