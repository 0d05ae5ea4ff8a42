package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const maxErrorText = 5000

// Timings are the figures a reasoner reports in its run log. Times are in milliseconds,
// Duration in seconds.
type Timings struct {
	OperationTime float64
	CPUTime       float64
	Duration      float64
}

// Reported is false when the reasoner logged neither an operation nor a CPU time.
func (t Timings) Reported() bool {
	return t.OperationTime != 0 || t.CPUTime != 0
}

// ParseRunLog scans `key: value` lines. Unrecognised lines are ignored.
func ParseRunLog(r io.Reader) (Timings, error) {
	var t Timings
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), ":")
		if !ok {
			continue
		}
		var dst *float64
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "operation time", "classification time":
			dst = &t.OperationTime
		case "operation cpu time":
			dst = &t.CPUTime
		case "duration":
			dst = &t.Duration
		default:
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return t, fmt.Errorf("failed to parse %q: %w", key, err)
		}
		*dst = v
	}
	return t, sc.Err()
}

// SummarizeErrors condenses a reasoner error file into one CSV-safe cell. A leading
// "timeout" line yields "timeout"; known harmless failures yield an empty summary.
func SummarizeErrors(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return "", sc.Err()
	}
	first := strings.TrimSpace(sc.Text())
	lower := strings.ToLower(first)
	switch {
	case lower == "timeout":
		return "timeout", nil
	case strings.Contains(lower, "inconsistentontology"),
		strings.Contains(lower, "stopping konclude"),
		strings.Contains(lower, "expressionsplitter"):
		return "", nil
	}

	var b strings.Builder
	line := first
	for {
		b.WriteString(strings.ReplaceAll(line, ",", ";"))
		b.WriteByte(' ')
		if b.Len() >= maxErrorText || !sc.Scan() {
			break
		}
		line = strings.TrimSpace(sc.Text())
	}
	out := b.String()
	if len(out) > maxErrorText {
		out = out[:maxErrorText]
	}
	return strings.TrimSpace(out), sc.Err()
}

// Harvest describes one reasoner run to summarise.
type Harvest struct {
	LogPath      string
	Operation    string
	OntologyPath string
	// ErrorBase is the path prefix of the error file; "_err" is appended.
	ErrorBase string
	OutDir    string
	Concept   string
}

// Row builds the CSV row: ontology, operation time, cpu time, duration, [concept], error.
func (h Harvest) Row() ([]string, error) {
	f, err := os.Open(h.LogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	defer f.Close()

	t, err := ParseRunLog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run log: %w", err)
	}

	row := []string{
		filepath.Base(h.OntologyPath),
		formatFloat(t.OperationTime),
		formatFloat(t.CPUTime),
		formatFloat(t.Duration),
	}
	if h.Concept != "" {
		row = append(row, h.Concept)
	}

	errText := ""
	ef, err := os.Open(h.ErrorBase + "_err")
	switch {
	case err == nil:
		defer ef.Close()
		if errText, err = SummarizeErrors(ef); err != nil {
			return nil, fmt.Errorf("failed to read error file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if !t.Reported() {
			errText = "timeout"
		}
	default:
		return nil, fmt.Errorf("failed to open error file: %w", err)
	}
	return append(row, errText), nil
}

// OutputPath is the per-operation CSV the row is appended to.
func (h Harvest) OutputPath() string {
	return filepath.Join(h.OutDir, "_"+h.Operation+".csv")
}

// Append writes the row to OutputPath, creating the directory as needed.
func (h Harvest) Append() (string, error) {
	row, err := h.Row()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(h.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	out := h.OutputPath()
	f, err := os.OpenFile(out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return "", fmt.Errorf("failed to write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write row: %w", err)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
