// Package html renders an aggregated document marking as a self-contained
// HTML page for display in a webview.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/aggregate"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"
)

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "ECCO Document Markings"

// RenderError describes a failure while assembling the page.
// It is logged, never returned.
type RenderError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer produces HTML pages. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	title  string
	logger *logging.Logger
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	title  string
	body   string
	logger *logging.Logger
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithBodyTemplate replaces the page body. The template receives the same
// data as the built-in body: Title, LineNumberWidth, Lines and Legend, and
// may use the rgba function.
func WithBodyTemplate(text string) Option {
	return func(o *options) {
		o.body = text
	}
}

// WithLogger sets the logger for rendering failures.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a renderer. It fails only if a custom body template does not
// parse.
func New(opts ...Option) (*Renderer, error) {
	o := options{title: DefaultTitle}
	for _, opt := range opts {
		opt(&o)
	}

	tmpl := template.New("page").Funcs(template.FuncMap{
		"rgba": func(c color.Color) template.CSS {
			return template.CSS(c.CSS())
		},
	})
	tmpl = template.Must(tmpl.Parse(headerTemplate))
	tmpl = template.Must(tmpl.Parse(footerTemplate))
	if o.body == "" {
		tmpl = template.Must(tmpl.Parse(bodyTemplate))
	} else {
		var err error
		if tmpl, err = tmpl.New("body").Parse(o.body); err != nil {
			return nil, fmt.Errorf("parse body template: %w", err)
		}
	}

	return &Renderer{
		tmpl:   tmpl,
		title:  o.title,
		logger: logging.OrDefault(o.logger).WithComponent("html"),
	}, nil
}

// WithLogger returns a copy of r that reports rendering failures to l,
// tagged with the html component.
func (r *Renderer) WithLogger(l *logging.Logger) *Renderer {
	c := *r
	c.logger = l.WithComponent("html")
	return &c
}

// pageData is the template input.
type pageData struct {
	Title           string
	LineNumberWidth int
	Lines           []lineData
	Legend          []aggregate.Swatch
}

type lineData struct {
	Number    string
	Fragments []aggregate.Fragment
}

// Render returns the page for an aggregated document. Lines are numbered
// from 1 and zero-padded to the width of the largest line number.
//
// Rendering never fails: if the body cannot be assembled the error is
// logged and whatever was produced so far is returned between the page
// header and footer.
func (r *Renderer) Render(doc marking.Document, lines []aggregate.Line, legend []aggregate.Swatch) string {
	data := r.pageData(doc.LineCount(), lines, legend)

	var buf bytes.Buffer
	for _, stage := range []string{"header", "body", "footer"} {
		if err := r.execute(&buf, stage, data); err != nil {
			r.logger.Error("rendering failed", "err", err, "lines", len(lines), "legend", len(legend))
		}
	}
	return buf.String()
}

// execute runs one named template, turning panics into errors.
func (r *Renderer) execute(buf *bytes.Buffer, stage string, data *pageData) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &RenderError{Stage: stage, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	if execErr := r.tmpl.ExecuteTemplate(buf, stage, data); execErr != nil {
		return &RenderError{Stage: stage, Err: execErr}
	}
	return nil
}

func (r *Renderer) pageData(lineCount int, lines []aggregate.Line, legend []aggregate.Swatch) *pageData {
	width := len(strconv.Itoa(max(lineCount, 1)))
	data := &pageData{
		Title:           r.title,
		LineNumberWidth: width,
		Lines:           make([]lineData, len(lines)),
		Legend:          legend,
	}
	for i, line := range lines {
		data.Lines[i] = lineData{
			Number:    fmt.Sprintf("%0*d", width, line.Number+1),
			Fragments: line.Fragments,
		}
	}
	return data
}
