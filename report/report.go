// Package report formats the before and after values of a run.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"rsc.io/markdown"
)

// A Result is the outcome of one run.
type Result struct {
	Name   string
	Before []int
	After  []int
}

// A Format names an output format.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{Text, Markdown, HTML}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// Write writes r to w in format f.
func Write(w io.Writer, f Format, r Result) error {
	ew := &errWriter{w: w}
	switch f {
	case Text:
		WriteText(ew, r)
	case Markdown:
		io.WriteString(ew, RenderMarkdown(r))
	case HTML:
		io.WriteString(ew, RenderHTML(r))
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	return ew.Err()
}

// WriteText writes r.After on one line.
func WriteText(w io.Writer, r Result) {
	fmt.Fprintln(w, r.After)
}

// RenderMarkdown returns r as a Markdown table, one row per index.
func RenderMarkdown(r Result) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&b, "## %s\n\n", r.Name)
	}
	b.WriteString("| index | before | after |\n")
	b.WriteString("| --- | --- | --- |\n")
	for i := range max(len(r.Before), len(r.After)) {
		p.Fprintf(&b, "| %d | %s | %s |\n", i, cell(p, r.Before, i), cell(p, r.After, i))
	}
	return b.String()
}

func cell(p *message.Printer, v []int, i int) string {
	if i >= len(v) {
		return ""
	}
	return p.Sprintf("%d", v[i])
}

// RenderHTML returns the Markdown form of r rendered as HTML.
func RenderHTML(r Result) string {
	p := markdown.Parser{Table: true}
	doc := p.Parse(RenderMarkdown(r))
	return markdown.ToHTML(doc)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(data []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(data)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *errWriter) Err() error { return w.err }
