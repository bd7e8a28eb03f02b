package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/urbandrive/storefront/internal/session"
	"github.com/urbandrive/storefront/pkg/logger"
)

//go:embed templates
var templateFS embed.FS

// Base carries the fields every page template expects. Controllers embed it
// in their page data.
type Base struct {
	Title string
	User  *session.UserSummary
	Flash string
}

// NewBase seeds the shared page data from the session state.
func NewBase(title string, state *session.State) Base {
	base := Base{Title: title}
	if state != nil {
		base.User = state.User
	}
	return base
}

// Renderer executes the embedded page templates against the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	logg  *logger.Logger
}

// NewRenderer parses every page template together with the layout and
// partials. A parse failure is a boot error, not a request-time one.
func NewRenderer(logg *logger.Logger) (*Renderer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	shared := []string{"templates/layout.tmpl"}
	partials, err := fs.Glob(templateFS, "templates/partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("globbing partials: %w", err)
	}
	shared = append(shared, partials...)

	pageFiles, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("globbing pages: %w", err)
	}

	funcs := template.FuncMap{
		"money": func(value float64) string { return fmt.Sprintf("%.2f", value) },
		"lower": strings.ToLower,
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		files := append(append([]string{}, shared...), file)
		parsed, err := template.New("layout.tmpl").Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", name, err)
		}
		pages[name] = parsed
	}

	return &Renderer{pages: pages, logg: logg}, nil
}

// Render writes the named page. Template failures are logged and answered
// with a plain 500 so a broken view never half-renders.
func (r *Renderer) Render(ctx context.Context, w http.ResponseWriter, status int, page string, data any) {
	parsed, ok := r.pages[page]
	if !ok {
		r.logg.Error(ctx, "unknown page template", fmt.Errorf("page %q not registered", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logg.Error(ctx, "template execution failed", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
