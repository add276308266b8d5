// Package jsonl provides JSONL file handling for feature sets and reports.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/vidgrade"
)

// Compile-time interface verification.
var _ vidgrade.FeatureLoader = (*Loader)(nil)

// Loader loads Features records from JSONL files, one video per line.
type Loader struct {
	// Stdin is read for the path "-".
	Stdin io.Reader
}

// NewLoader creates a Loader that reads os.Stdin for "-".
func NewLoader() *Loader {
	return &Loader{Stdin: os.Stdin}
}

// maxLineSize is the maximum size for a single JSONL line (16MB).
// Per-frame metric series for long videos make lines large.
const maxLineSize = 16 * 1024 * 1024

// Load reads a JSONL file and returns all Features records. The path "-"
// reads standard input.
func (l *Loader) Load(path string) ([]vidgrade.Features, error) {
	if path == "-" {
		if l.Stdin == nil {
			return Decode(os.Stdin)
		}
		return Decode(l.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads Features records from r.
func Decode(r io.Reader) ([]vidgrade.Features, error) {
	var features []vidgrade.Features
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var f vidgrade.Features
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		features = append(features, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return features, nil
}
