package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/vidgrade"
)

// Compile-time interface verification.
var _ vidgrade.ReportStore = (*Store)(nil)

// Store persists Report records by appending them to a JSONL file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Save appends a report, creating parent directories if needed.
func (s *Store) Save(_ context.Context, report *vidgrade.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("jsonl: encode report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// Find returns the most recently saved report with the given id.
func (s *Store) Find(ctx context.Context, id string) (*vidgrade.Report, error) {
	reports, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(reports) - 1; i >= 0; i-- {
		if reports[i].ID == id {
			return reports[i], nil
		}
	}
	return nil, fmt.Errorf("jsonl: %q: %w", id, vidgrade.ErrReportNotFound)
}

// List returns all reports in save order. A missing file yields no reports.
func (s *Store) List(_ context.Context) ([]*vidgrade.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var reports []*vidgrade.Report
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var r vidgrade.Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		reports = append(reports, &r)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}
