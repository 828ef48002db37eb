package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/sessions"
)

//go:embed templates
var templateFS embed.FS

// templateFuncs flatten the optional model fields so form templates can
// print them without nil checks everywhere.
var templateFuncs = template.FuncMap{
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"intval": func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	},
	"num": func(n *int) string {
		if n == nil {
			return ""
		}
		return strconv.Itoa(*n)
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
}

// PageData is the envelope every template receives.
type PageData struct {
	Title   string
	User    *models.User
	Flashes []sessions.Flash
	Data    interface{}
}

// Renderer holds the parsed template set. Templates are embedded and
// parsed once at startup; a parse failure is a boot failure, not a
// per-request one.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

func New(logger *slog.Logger) (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")
		tpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tpl
	}

	return &Renderer{templates: templates, logger: logger}, nil
}

// Render writes the named page. The template executes into a buffer first
// so a mid-render failure becomes a clean 500 instead of a torn page.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data *PageData) {
	tpl, ok := v.templates[name]
	if !ok {
		v.logger.Error("unknown template", slog.String("name", name))
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &PageData{}
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		v.logger.Error("failed to render template", slog.String("name", name), slog.Any("error", err))
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
