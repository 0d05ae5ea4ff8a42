package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Table is a CSV result file as produced by a reasoner for the sat and consistency operations.
type Table struct {
	Path string
	Rows [][]string
}

func (t *Table) IsEmpty() bool { return len(t.Rows) == 0 }

// Lines returns each row joined back with commas.
func (t *Table) Lines() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = strings.Join(r, ",")
	}
	return out
}

// ParseTable reads CSV rows of any width. Blank lines are skipped.
func ParseTable(r io.Reader, path string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	t := &Table{Path: path}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// LoadTable reads a result table. A missing file yields ErrMissing.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissing)
		}
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()
	return ParseTable(f, path)
}
