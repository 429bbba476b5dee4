// Package views renders the embedded HTML templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer escapes raw HTML in the input; WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Data is passed to every page. Content holds the page-specific values.
type Data struct {
	Title      string
	Admin      *models.AdminUser
	Perms      permissions.Set
	CSRF       string
	AgencyName string
	Notice     string
	Flash      string
	Error      string
	Field      string
	Path       string
	Query      url.Values
	Content    interface{}
}

// Renderer holds one parsed template set per page, each combined with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		tpl, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

// Render executes a page into w. The page is buffered first so a failing
// template never writes a partial response.
func (r *Renderer) Render(w io.Writer, page string, data *Data) error {
	tpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if data.Perms == nil {
		data.Perms = permissions.Set{}
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a page template exists.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Markdown converts user text to HTML. Raw HTML in the input is dropped.
func Markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"date":     formatDate,
		"datetime": formatDateTime,
		"age": func(dob time.Time) int {
			return models.AgeAt(dob, timeNow())
		},
		"humanize": humanize,
		"money":    money,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"hasString": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"permKey": func(r permissions.Resource, a permissions.Action) string {
			return string(r) + ":" + string(a)
		},
		"pageURL": pageURL,
		"sortURL": sortURL,
		"str": func(v interface{}) string {
			if v == nil {
				return ""
			}
			return fmt.Sprint(v)
		},
	}
}

func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	default:
		return ""
	}
}

func formatDateTime(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	default:
		return ""
	}
}

// humanize turns "under_review" into "Under review".
func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// money formats an amount with thousands separators and no decimals.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// pageURL keeps the current filters and replaces the page number.
func pageURL(p string, q url.Values, page int) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = append([]string(nil), v...)
	}
	next.Set("page", strconv.Itoa(page))
	return p + "?" + next.Encode()
}

// sortURL sorts by col, flipping the direction when col is already active,
// and resets to the first page.
func sortURL(p string, q url.Values, col string) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = append([]string(nil), v...)
	}
	dir := "asc"
	if q.Get("sort") == col && q.Get("dir") != "desc" {
		dir = "desc"
	}
	next.Set("sort", col)
	next.Set("dir", dir)
	next.Del("page")
	return p + "?" + next.Encode()
}
