package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"regexp"
	"strings"
	texttemplate "text/template"

	"github.com/Zachacious/go-docket/internal/model"
)

//go:embed templates
var templates embed.FS

// Format selects the output markup.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".html"
}

var (
	codeToken = regexp.MustCompile("`([a-zA-Z0-9_$]+)`")
	typeToken = regexp.MustCompile(`\[([a-zA-Z0-9_$]+)\]`)
)

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Template renders units with the embedded templates of one format.
type Template struct {
	format Format
	title  string
	tmpl   executor
}

// New parses the templates for format. title names the project in page
// headers.
func New(format Format, title string) (*Template, error) {
	pattern := "templates/" + string(format) + "/*.tmpl"
	var (
		tmpl executor
		err  error
	)
	switch format {
	case FormatHTML:
		tmpl, err = htmltemplate.New("").Funcs(htmltemplate.FuncMap{
			"inline": inlineHTML,
			"types":  typesHTML,
		}).ParseFS(templates, pattern)
	case FormatMarkdown:
		tmpl, err = texttemplate.New("").Funcs(texttemplate.FuncMap{
			"inline": inlineMarkdown,
			"types":  typesMarkdown,
		}).ParseFS(templates, pattern)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s templates: %w", format, err)
	}
	return &Template{format: format, title: title, tmpl: tmpl}, nil
}

// Format returns the output format.
func (t *Template) Format() Format { return t.format }

// Render implements Renderer.
func (t *Template) Render(u Unit) ([]byte, error) {
	page := page{Project: t.title, Title: u.Entity.Title(), Entries: entries(u.Entity)}
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, "unit", page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderIndex renders a table of contents linking every unit.
func (t *Template) RenderIndex(units []Unit) ([]byte, error) {
	type link struct {
		Kind, Title, Href string
	}
	idx := struct {
		Project string
		Title   string
		Links   []link
	}{Project: t.title, Title: "Index"}
	for _, u := range units {
		idx.Links = append(idx.Links, link{Kind: u.Entity.Kind().String(), Title: u.Entity.Title(), Href: u.Name + t.format.Ext()})
	}
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, "index", idx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type page struct {
	Project string
	Title   string
	Entries []entry
}

// entry is the template view of one entity.
type entry struct {
	Num         int
	Kind        string
	Title       string
	Name        string
	Module      string
	Added       *model.Added
	Authors     string
	Copyright   string
	Description string
	Status      *model.Status
	Updates     []model.Update
	See         []string
	Params      []model.Param
	Returns     *model.Returns
	Throws      []model.Throws
}

// entries flattens a unit in render order and numbers the entries from 1.
func entries(e model.Entity) []entry {
	var out []entry
	add := func(e model.Entity) {
		info := e.Info()
		en := entry{
			Num:         len(out) + 1,
			Kind:        e.Kind().String(),
			Title:       e.Title(),
			Added:       info.Added,
			Authors:     JoinAuthors(info.Authors),
			Description: info.Description,
			Status:      info.Status,
			Updates:     info.Updates,
			See:         info.See,
		}
		switch e := e.(type) {
		case *model.Module:
			en.Name = e.Name
			en.Copyright = e.Copyright
		case *model.Class:
			en.Name = e.Name
			en.Module = e.Module
			en.Copyright = e.Copyright
		case *model.Signature:
			en.Name = e.Name
			en.Module = e.Module
			en.Params = e.Params
			en.Returns = e.Return
			en.Throws = e.Throws
		}
		out = append(out, en)
	}
	addClass := func(c *model.Class) {
		add(c)
		for _, s := range c.Signatures {
			add(s)
		}
	}

	switch e := e.(type) {
	case *model.Module:
		add(e)
		for _, c := range e.Classes {
			addClass(c)
		}
		for _, s := range e.Signatures {
			add(s)
		}
	case *model.Class:
		addClass(e)
	case *model.Signature:
		add(e)
	}
	return out
}

// JoinAuthors formats authors as "A", "A and B" or "A, B, and C".
func JoinAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " and " + authors[1]
	}
	return strings.Join(authors[:len(authors)-1], ", ") + ", and " + authors[len(authors)-1]
}

func inlineHTML(s string) htmltemplate.HTML {
	s = htmltemplate.HTMLEscapeString(s)
	s = codeToken.ReplaceAllString(s, `<code>$1</code>`)
	s = typeToken.ReplaceAllString(s, `&lt;<a class="type-ref" href="#">$1</a>&gt;`)
	return htmltemplate.HTML(s)
}

func typesHTML(t model.TypeRef) htmltemplate.HTML {
	parts := make([]string, 0, len(t))
	for _, name := range t {
		parts = append(parts, `&lt;<a class="type-ref" href="#">`+htmltemplate.HTMLEscapeString(name)+`</a>&gt;`)
	}
	return htmltemplate.HTML(strings.Join(parts, "|"))
}

func inlineMarkdown(s string) string {
	return typeToken.ReplaceAllString(s, `*$1*`)
}

func typesMarkdown(t model.TypeRef) string {
	parts := make([]string, 0, len(t))
	for _, name := range t {
		parts = append(parts, "`"+name+"`")
	}
	return strings.Join(parts, " or ")
}
