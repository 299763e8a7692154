package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// Writer appends Stats rows to a CSV stream, writing the header once.
type Writer struct {
	out           io.Writer
	headerWritten bool
	rows          int
}

// NewWriter returns a Writer on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write appends one row.
func (w *Writer) Write(stats Stats) error {
	records := []Stats{stats}

	if !w.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	w.rows++
	return nil
}

// Rows returns how many rows have been written.
func (w *Writer) Rows() int { return w.rows }

// Output is a run directory holding telemetry.csv and the config.yaml the run
// was started with.
type Output struct {
	dir  string
	file *os.File
	*Writer
}

// NewOutput creates dir and opens telemetry.csv inside it.
func NewOutput(dir string) (*Output, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	return &Output{dir: dir, file: f, Writer: NewWriter(f)}, nil
}

// WriteConfig saves params as config.yaml so the run can be reproduced.
func (o *Output) WriteConfig(params flock.Params) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(o.dir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}
	return nil
}

// Dir returns the output directory.
func (o *Output) Dir() string { return o.dir }

// Close flushes and closes telemetry.csv.
func (o *Output) Close() error {
	return o.file.Close()
}
