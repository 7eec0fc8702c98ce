// Package plot draws report views: interactive HTML pages built on
// go-echarts and static SVG documents built from the view geometry.
package plot

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
)

const styleTagLen = len("</style>")

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template.
}

// Renderable is anything that writes itself as HTML, such as a go-echarts
// chart.
type Renderable interface {
	Render(w io.Writer) error
}

// Section is one chart block. A non-empty Notice replaces the chart, e.g.
// for a selection without data.
type Section struct {
	Title    string
	Subtitle string
	Notice   string
	Chart    Renderable
}

// Page is a standalone HTML report.
type Page struct {
	Title       string
	Description string
	Theme       Theme
	Sections    []Section
}

// NewPage returns an empty light page.
func NewPage(title, description string) *Page {
	return &Page{Title: title, Description: description, Theme: ThemeLight}
}

// WithTheme sets the page theme.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

type pageData struct {
	Title       string
	Description string
	Dark        bool
	Theme       ThemeConfig
	Content     template.HTML
}

type sectionData struct {
	Title    string
	Subtitle string
	Notice   string
	Chart    template.HTML
}

// Render writes the page.
func (p *Page) Render(w io.Writer) error {
	var content bytes.Buffer

	for _, s := range p.Sections {
		chartHTML, err := renderChart(s.Chart)
		if err != nil {
			return fmt.Errorf("render section %q: %w", s.Title, err)
		}

		html, err := renderTemplate("section.html", sectionData{
			Title:    s.Title,
			Subtitle: s.Subtitle,
			Notice:   s.Notice,
			Chart:    chartHTML,
		})
		if err != nil {
			return err
		}

		content.WriteString(string(html))
	}

	html, err := renderTemplate("page.html", pageData{
		Title:       p.Title,
		Description: p.Description,
		Dark:        p.Theme == ThemeDark,
		Theme:       GetThemeConfig(p.Theme),
		Content:     template.HTML(content.String()), //nolint:gosec // assembled from rendered templates.
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func renderChart(chart Renderable) (template.HTML, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return template.HTML(extractChartContent(buf.String())), nil //nolint:gosec // go-echarts output.
}

// extractChartContent cuts the chart container and its script out of a
// full go-echarts page. Fragments pass through unchanged.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)

	if start == -1 || end == -1 || end < start {
		return html
	}

	content := strings.ReplaceAll(html[start:end], `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}
}
