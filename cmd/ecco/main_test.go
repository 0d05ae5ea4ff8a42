package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ecco/internal/core/report"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiffCommand(t *testing.T) {
	t.Setenv("ECCO_REASONER", "asserted")
	dir := t.TempDir()
	older := writeFile(t, filepath.Join(dir, "v1.yaml"), "axioms:\n  - subClassOf: [A, B]\n")
	newer := writeFile(t, filepath.Join(dir, "v2.yaml"), "axioms:\n  - subClassOf: [A, B]\n  - subClassOf: [B, C]\n")

	out, err := run(t, "diff", older, newer)
	require.NoError(t, err)
	assert.Contains(t, out, `<root id="root"`)
	assert.Contains(t, out, "B SubClassOf C")

	out, err = run(t, "diff", "--format", "json", "--naming", "gensym", older, newer)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "logical"`)

	report := filepath.Join(dir, "out", "report.xml")
	_, err = run(t, "diff", "-o", report, older, newer)
	require.NoError(t, err)
	assert.FileExists(t, report)

	_, err = run(t, "diff", "--format", "yaml", older, newer)
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReport_Errors(t *testing.T) {
	rep := &report.Report{}
	for _, format := range []string{"xml", "json"} {
		err := writeReport(failingWriter{}, rep, format)
		assert.ErrorContains(t, err, "disk full", format)
	}
	assert.Error(t, writeReport(&bytes.Buffer{}, rep, "yaml"))
}

func TestDiffCommand_ReportFile(t *testing.T) {
	t.Setenv("ECCO_REASONER", "asserted")
	dir := t.TempDir()
	older := writeFile(t, filepath.Join(dir, "v1.yaml"), "axioms:\n  - subClassOf: [A, B]\n")
	newer := writeFile(t, filepath.Join(dir, "v2.yaml"), "axioms:\n  - subClassOf: [A, B]\n  - subClassOf: [B, C]\n")

	path := filepath.Join(dir, "out", "report.json")
	out, err := run(t, "diff", "--format", "json", "-o", path, older, newer)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind": "logical"`)

	_, err = run(t, "diff", "-o", filepath.Join(dir, "v1.yaml", "report.xml"), older, newer)
	assert.Error(t, err, "parent is a file")
}

func TestCompareAndRunsCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ECCO_STORAGE", "sqlite")
	t.Setenv("ECCO_SQLITE_PATH", filepath.Join(dir, "ecco.db"))

	hermit := writeFile(t, filepath.Join(dir, "hermit", "consistency", "pizza", "r.csv"), "true\n")
	elk := writeFile(t, filepath.Join(dir, "elk", "consistency", "pizza", "r.csv"), "false\n")
	fact := writeFile(t, filepath.Join(dir, "fact", "consistency", "pizza", "r.csv"), "true\n")
	rows := filepath.Join(dir, "rows", "consistency.csv")

	out, err := run(t, "compare", "--op", "consistency", "-o", rows, hermit, elk, fact)
	require.NoError(t, err)
	cells := strings.Split(strings.TrimSpace(out), ",")
	// Sixteen known sources, then elk, which is not one of them.
	require.Len(t, cells, 19)
	assert.Equal(t, []string{"pizza", "consistency"}, cells[:2])
	assert.Equal(t, "true", cells[2+5], "fact")
	assert.Equal(t, "true", cells[2+6], "hermit")
	assert.Equal(t, "nofile", cells[2+9], "konclude")
	assert.Equal(t, "false", cells[18], "elk")

	saved, err := os.ReadFile(rows)
	require.NoError(t, err)
	assert.Equal(t, out, string(saved))

	out, err = run(t, "runs", "--ontology", "pizza")
	require.NoError(t, err)
	assert.Contains(t, out, "consistency")
	// Majority members are listed in column order, where fact precedes hermit.
	assert.Contains(t, out, "[fact hermit]")

	_, err = run(t, "compare", "--mode", "spectral", hermit)
	assert.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	onto := writeFile(t, filepath.Join(dir, "pizza.yaml"), "axioms:\n  - subClassOf: [Margherita, Pizza]\n")
	output := filepath.Join(dir, "results", "sat.csv")

	out, err := run(t, "verify", "sat", onto, output, "Pizza")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: pizza")
	assert.FileExists(t, output)

	_, err = run(t, "verify", "sat", onto, output, "Calzone")
	assert.Error(t, err)

	_, err = run(t, "verify", "realisation", onto, output)
	assert.Error(t, err)
}

func TestSampleCommand(t *testing.T) {
	dir := t.TempDir()
	onto := writeFile(t, filepath.Join(dir, "pizza.yaml"), "axioms:\n  - subClassOf: [Margherita, Pizza]\n  - subClassOf: [Pizza, Food]\n")

	out, err := run(t, "sample", "--seed", "3", onto, "2")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 2)

	again, err := run(t, "sample", "--seed", "3", onto, "2")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = run(t, "sample", onto, "4")
	assert.Error(t, err)

	_, err = run(t, "sample", onto, "two")
	assert.Error(t, err)
}

func TestHarvestCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, filepath.Join(dir, "hermit.log"), "Operation time: 120\nOperation CPU time: 100\nDuration: 0.5\n")
	outDir := filepath.Join(dir, "summary")

	_, err := run(t, "harvest", logPath, "sat", "/data/pizza.yaml", filepath.Join(dir, "hermit"), outDir, "Pizza")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "_sat.csv"))
	require.NoError(t, err)
	assert.Equal(t, "pizza.yaml,120,100,0.5,Pizza,\n", string(data))
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, filepath.Join(dir, "ecco.toml"), "[compare]\nconcurrency = 0\n")

	_, err := run(t, "--config", cfg, "runs")
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(dir, "missing.toml"), "runs")
	assert.Error(t, err)
}
