package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/chroma"
	"github.com/fwojciec/vidgrade/lipgloss"
)

// TextFormatter renders reports with the terminal report renderer.
type TextFormatter struct {
	Renderer *lipgloss.Renderer
}

// Format writes the styled report.
func (f *TextFormatter) Format(w io.Writer, report *vidgrade.Report) error {
	_, err := io.WriteString(w, f.Renderer.Render(report))
	return err
}

// FormatList writes the report table.
func (f *TextFormatter) FormatList(w io.Writer, reports []*vidgrade.Report) error {
	_, err := io.WriteString(w, f.Renderer.RenderList(reports))
	return err
}

// JSONFormatter writes reports as indented JSON, highlighted when a
// Highlighter is set.
type JSONFormatter struct {
	Highlighter *chroma.Highlighter
}

// Format writes report as JSON.
func (f *JSONFormatter) Format(w io.Writer, report *vidgrade.Report) error {
	return f.write(w, report)
}

// FormatList writes reports as a JSON array.
func (f *JSONFormatter) FormatList(w io.Writer, reports []*vidgrade.Report) error {
	if reports == nil {
		reports = []*vidgrade.Report{}
	}
	return f.write(w, reports)
}

func (f *JSONFormatter) write(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if f.Highlighter == nil {
		_, err = w.Write(data)
		return err
	}
	return f.Highlighter.Highlight(w, string(data))
}
