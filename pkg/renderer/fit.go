package renderer

import "regexp"

// A4 page size in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Box is a placement on the page in page units.
type Box struct {
	X, Y, Width, Height float64
}

// FitToPage scales a w×h bitmap to the page width, or to the page height
// when that would overflow, centring it horizontally at the top of the page.
func FitToPage(w, h int, pageW, pageH float64) Box {
	if w <= 0 || h <= 0 {
		return Box{}
	}
	ratio := float64(w) / float64(h)
	imgW := pageW
	imgH := pageW / ratio
	if imgH > pageH {
		imgH = pageH
		imgW = imgH * ratio
	}
	return Box{X: (pageW - imgW) / 2, Y: 0, Width: imgW, Height: imgH}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename builds the download name from a resume title.
func Filename(title string) string {
	name := whitespaceRun.ReplaceAllString(title, "_")
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}
