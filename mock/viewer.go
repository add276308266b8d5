package mock

import (
	"context"

	"github.com/fwojciec/vidgrade"
)

// Compile-time interface verification.
var (
	_ vidgrade.ReportViewer = (*ReportViewer)(nil)
	_ vidgrade.Clipboard    = (*Clipboard)(nil)
)

// ReportViewer is a mock implementation of vidgrade.ReportViewer.
type ReportViewer struct {
	ViewFn func(ctx context.Context, reports []*vidgrade.Report) error
}

func (v *ReportViewer) View(ctx context.Context, reports []*vidgrade.Report) error {
	return v.ViewFn(ctx, reports)
}

// Clipboard is a mock implementation of vidgrade.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
