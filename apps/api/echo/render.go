package echoapi

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

const layoutTemplate = "templates/layout.html"

// page is the data handed to every HTML template.
type page struct {
	AppName   string
	Title     string
	RequestID string
	Flash     flashNotice
	HasFlash  bool
	Data      interface{}
}

func newPage(ctx echo.Context, title string, data interface{}) page {
	p := page{
		Title:     title,
		RequestID: ctx.Response().Header().Get(echo.HeaderXRequestID),
		Data:      data,
	}
	p.Flash, p.HasFlash = popFlash(ctx)
	return p
}

// templateRenderer renders each page within the shared layout.
type templateRenderer struct {
	appName   string
	templates map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(core.DateLayout)
	},
	"nulldate": func(t null.Time) string {
		if !t.Valid {
			return ""
		}
		return t.Time.Format(core.DateLayout)
	},
	"weekday": func(t time.Time) string {
		return t.Weekday().String()
	},
	"multiplier": func(m float64) string {
		return strconv.FormatFloat(m, 'f', -1, 64) + "x"
	},
	"extraPercent": func(m float64) string {
		return fmt.Sprintf("+%d%%", int((m-1)*100+0.5))
	},
}

func newTemplateRenderer(fsys fs.FS, appName string) (*templateRenderer, error) {
	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &templateRenderer{appName: appName, templates: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		if p == layoutTemplate {
			continue
		}
		t, err := template.New(path.Base(layoutTemplate)).Funcs(templateFuncs).ParseFS(fsys, layoutTemplate, p)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", p)
		}
		r.templates[path.Base(p)] = t
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %s not found", name)
	}
	if p, ok := data.(page); ok {
		p.AppName = r.appName
		data = p
	}
	return t.ExecuteTemplate(w, path.Base(layoutTemplate), data)
}
