// Package views renders the embedded HTML templates. Each page template is
// parsed together with the shared layout so pages can define their own
// content block.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/gofiber/fiber/v2"

	"eventapp/internal/model"
	"eventapp/internal/reconcile"
	"eventapp/internal/session"
)

//go:embed templates
var files embed.FS

var funcs = template.FuncMap{
	"formatDate":   model.FormatEventDate,
	"formatTime":   model.FormatEventTime,
	"activityLine": reconcile.ActivityLine,
	"pct": func(f float64) string {
		return fmt.Sprintf("%.0f", f)
	},
}

var pages = map[string]*template.Template{}

func init() {
	layout := "templates/layout.html"
	for _, pattern := range []string{"templates/*.html", "templates/admin/*.html"} {
		matches, err := fs.Glob(files, pattern)
		if err != nil {
			panic(err)
		}
		for _, match := range matches {
			if match == layout {
				continue
			}
			name := match[len("templates/"):]
			pages[name] = template.Must(
				template.New(path.Base(layout)).Funcs(funcs).ParseFS(files, layout, match),
			)
		}
	}
}

// Data is the envelope every page receives.
type Data struct {
	Title   string
	Role    string // session role, drives the nav
	Flash   *session.Flash
	CSRF    string
	Content any
}

func Render(c *fiber.Ctx, name string, data Data) error {
	tpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
