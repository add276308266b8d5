package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/vidgrade"
)

// ErrNoFeatures is returned when the input holds no feature records.
var ErrNoFeatures = errors.New("no feature records in input")

// ErrNoReports is returned when the store holds nothing to browse.
var ErrNoReports = errors.New("no stored reports")

// Scorer scores one video's features.
type Scorer interface {
	Run(ctx context.Context, f *vidgrade.Features) (*vidgrade.Report, error)
}

// Formatter writes a report to w.
type Formatter interface {
	Format(w io.Writer, report *vidgrade.Report) error
}

// ListFormatter writes a report listing to w.
type ListFormatter interface {
	FormatList(w io.Writer, reports []*vidgrade.Report) error
}

// ReportFormatter writes single reports and listings.
type ReportFormatter interface {
	Formatter
	ListFormatter
}

// App encapsulates the application logic for testing.
type App struct {
	Out       io.Writer
	Loader    vidgrade.FeatureLoader
	Scorer    Scorer
	Store     vidgrade.ReportStore
	Formatter ReportFormatter
	Viewer    vidgrade.ReportViewer
}

// Score loads every feature record at path, scores each one and writes the
// reports. Scoring continues past a failed record; the first error is
// returned once all records are processed.
func (a *App) Score(ctx context.Context, path string) error {
	records, err := a.Loader.Load(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNoFeatures
	}

	var firstErr error
	for i := range records {
		report, err := a.Scorer.Run(ctx, &records[i])
		if report != nil {
			if ferr := a.Formatter.Format(a.Out, report); ferr != nil {
				return ferr
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("video %q: %w", records[i].VideoID, err)
			}
		}
	}
	return firstErr
}

// Show writes the stored report with the given id.
func (a *App) Show(ctx context.Context, id string) error {
	report, err := a.Store.Find(ctx, id)
	if err != nil {
		return err
	}
	return a.Formatter.Format(a.Out, report)
}

// List writes a summary of every stored report.
func (a *App) List(ctx context.Context) error {
	reports, err := a.Store.List(ctx)
	if err != nil {
		return err
	}
	return a.Formatter.FormatList(a.Out, reports)
}

// Browse opens the interactive viewer over every stored report.
func (a *App) Browse(ctx context.Context) error {
	reports, err := a.Store.List(ctx)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return ErrNoReports
	}
	return a.Viewer.View(ctx, reports)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := NewRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
