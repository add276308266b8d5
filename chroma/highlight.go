// Package chroma provides syntax highlighting of report JSON using the
// chroma library.
package chroma

import (
	"fmt"
	"io"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Defaults for terminal output.
const (
	DefaultStyle     = "monokai"
	DefaultFormatter = "terminal256"
	PlainFormatter   = "noop"
)

// Highlighter renders JSON with ANSI colors.
type Highlighter struct {
	lexer     chromalib.Lexer
	formatter chromalib.Formatter
	style     *chromalib.Style
}

// NewHighlighter creates a JSON highlighter. Empty names select the
// defaults; unknown names fall back to chroma's fallbacks.
func NewHighlighter(styleName, formatterName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	if formatterName == "" {
		formatterName = DefaultFormatter
	}
	// Coalesce for better performance with consecutive tokens of the same type
	lexer := chromalib.Coalesce(lexers.Get("json"))
	return &Highlighter{
		lexer:     lexer,
		formatter: formatters.Get(formatterName),
		style:     styles.Get(styleName),
	}
}

// Highlight writes src to w with syntax colors.
func (h *Highlighter) Highlight(w io.Writer, src string) error {
	iterator, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return fmt.Errorf("chroma: tokenise: %w", err)
	}
	if err := h.formatter.Format(w, h.style, iterator); err != nil {
		return fmt.Errorf("chroma: format: %w", err)
	}
	return nil
}
