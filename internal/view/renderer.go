package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the page assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("view: static assets: %v", err))
	}
	return sub
}

// page is the value the base template executes against.
type page struct {
	Layout Layout
	Data   Data
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("_root").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full page for layout. Output is buffered so that a
// template error never leaves a half-written page behind.
func (r *Renderer) Render(w io.Writer, layout Layout, data Data) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "base", page{Layout: layout, Data: data}); err != nil {
		return fmt.Errorf("render %s page: %w", layout.Name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderFragment writes only the content of anchor. It writes nothing when the
// layout does not carry the anchor.
func (r *Renderer) RenderFragment(w io.Writer, layout Layout, anchor Anchor, data Data) error {
	if !layout.Has(anchor) {
		return nil
	}

	var buf bytes.Buffer
	var err error
	switch anchor {
	case AnchorCartIcon:
		err = r.tmpl.ExecuteTemplate(&buf, "badge", data.CartBadge)
	case AnchorWishlistIcon:
		err = r.tmpl.ExecuteTemplate(&buf, "badge", data.WishlistBadge)
	default:
		err = r.tmpl.ExecuteTemplate(&buf, string(anchor), data)
	}
	if err != nil {
		return fmt.Errorf("render %s fragment: %w", anchor, err)
	}
	_, err = buf.WriteTo(w)
	return err
}
