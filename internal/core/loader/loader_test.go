package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agenthands/ecco/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizza = `
ontology: pizza
labels:
  Margherita: Margherita pizza
declarations:
  classes: [Unused]
  individuals: [m1]
axioms:
  - subClassOf: [Margherita, {some: [hasTopping, Mozzarella]}]
  - equivalentClasses: [Veggie, {and: [Pizza, {only: [hasTopping, {not: Meat}]}]}]
  - disjointClasses: [Meat, Mozzarella]
  - classAssertion: [Margherita, m1]
  - objectPropertyAssertion: [hasTopping, m1, t1]
  - transitiveObjectProperty: [partOf]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseOntology(t *testing.T) {
	o, err := ParseOntology([]byte(pizza), "pizza.yaml")
	require.NoError(t, err)

	assert.Equal(t, "pizza", o.ID)
	assert.Equal(t, 6, o.LogicalAxioms().Len())
	assert.Equal(t, 8, o.Axioms().Len())

	hasTopping := model.ObjectProperty("hasTopping")
	assert.True(t, o.Contains(model.Sub(
		model.Named(model.Class("Margherita")),
		model.Some(hasTopping, model.Named(model.Class("Mozzarella"))))))
	assert.True(t, o.ContainsClass("Unused"))
	assert.True(t, o.Signature().Contains(model.Individual("t1")))
	assert.True(t, o.Signature().Contains(model.ObjectProperty("partOf")))

	label, ok := o.Label(model.Class("Margherita"))
	assert.True(t, ok)
	assert.Equal(t, "Margherita pizza", label)
}

func TestParseOntology_IDFallback(t *testing.T) {
	o, err := ParseOntology([]byte("axioms:\n  - subClassOf: [A, B]\n"), "/data/ore/go.yaml")
	require.NoError(t, err)
	assert.Equal(t, "go", o.ID)

	o, err = ParseOntology(nil, "empty.yaml")
	require.NoError(t, err)
	assert.True(t, o.LogicalAxioms().IsEmpty())
}

func TestParseOntology_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		line int
	}{
		{"unknown type", "axioms:\n  - subPropertyChainOf: [a, b]\n", 2},
		{"two keys", "axioms:\n  - {subClassOf: [A, B], disjointClasses: [A, B]}\n", 2},
		{"arity", "axioms:\n  - subClassOf: [A]\n", 2},
		{"bad constructor", "axioms:\n  - subClassOf:\n      - A\n      - {exactly: [r, B]}\n", 4},
		{"operands not a list", "axioms:\n  - subClassOf: A\n", 2},
		{"declaration in axioms", "axioms:\n  - declaration: [A]\n", 2},
		{"malformed", "axioms: [\n", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOntology([]byte(tc.doc), "bad.yaml")
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "bad.yaml", pe.Path)
			if tc.line > 0 {
				assert.Equal(t, tc.line, pe.Line)
			}
		})
	}
}

func TestLoadOntology_Missing(t *testing.T) {
	_, err := LoadOntology(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sat.csv", "A, true\n\nB,false\nconsistent\n")

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "true"}, {"B", "false"}, {"consistent"}}, table.Rows)
	assert.Equal(t, []string{"A,true", "B,false", "consistent"}, table.Lines())

	_, err = LoadTable(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, ErrMissing)
}

func TestParseRunLog(t *testing.T) {
	log := `Started reasoner
Operation time: 1520
operation CPU time: 1400.5
Duration: 2.1
unrelated: text`
	timings, err := ParseRunLog(strings.NewReader(log))
	require.NoError(t, err)
	assert.Equal(t, Timings{OperationTime: 1520, CPUTime: 1400.5, Duration: 2.1}, timings)
	assert.True(t, timings.Reported())

	timings, err = ParseRunLog(strings.NewReader("Classification time: 12\n"))
	require.NoError(t, err)
	assert.Equal(t, 12.0, timings.OperationTime)

	_, err = ParseRunLog(strings.NewReader("duration: soon\n"))
	assert.Error(t, err)
}

func TestSummarizeErrors(t *testing.T) {
	s, err := SummarizeErrors(strings.NewReader("Timeout\n"))
	require.NoError(t, err)
	assert.Equal(t, "timeout", s)

	s, err = SummarizeErrors(strings.NewReader("org.semanticweb.InconsistentOntologyException\n"))
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = SummarizeErrors(strings.NewReader("java.lang.OutOfMemoryError: a, b\n  at Foo\n"))
	require.NoError(t, err)
	assert.Equal(t, "java.lang.OutOfMemoryError: a; b at Foo", s)

	s, err = SummarizeErrors(strings.NewReader(strings.Repeat("x", 6000)))
	require.NoError(t, err)
	assert.Len(t, s, maxErrorText)
}

func TestHarvest(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "run.log", "operation time: 10\noperation cpu time: 8\nduration: 1\n")
	out := filepath.Join(dir, "out")

	h := Harvest{
		LogPath:      logPath,
		Operation:    "sat",
		OntologyPath: "/ore/pizza.owl",
		ErrorBase:    filepath.Join(dir, "run"),
		OutDir:       out,
		Concept:      "Margherita",
	}
	path, err := h.Append()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "_sat.csv"), path)

	// A run that reported nothing and left no error file timed out.
	silent := writeFile(t, dir, "silent.log", "starting\n")
	h2 := Harvest{LogPath: silent, Operation: "sat", OntologyPath: "go.owl", ErrorBase: filepath.Join(dir, "silent"), OutDir: out}
	_, err = h2.Append()
	require.NoError(t, err)

	// The error file wins over the timing check.
	writeFile(t, dir, "failed_err", "NullPointerException, at line 3\n")
	h3 := Harvest{LogPath: silent, Operation: "sat", OntologyPath: "nci.owl", ErrorBase: filepath.Join(dir, "failed"), OutDir: out}
	_, err = h3.Append()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"pizza.owl,10,8,1,Margherita,\n"+
			"go.owl,0,0,0,timeout\n"+
			"nci.owl,0,0,0,NullPointerException; at line 3\n",
		string(data))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	ont := writeFile(t, dir, "pizza.yaml", pizza)
	out := filepath.Join(dir, "results", "nested", "out.csv")

	o, err := Verify(VerifyRequest{Operation: "Classification", OntologyPath: ont, OutputPath: out})
	require.NoError(t, err)
	assert.Equal(t, "pizza", o.ID)
	assert.FileExists(t, out)

	_, err = Verify(VerifyRequest{Operation: "realisation", OntologyPath: ont, OutputPath: out})
	assert.Error(t, err)

	_, err = Verify(VerifyRequest{Operation: "sat", OntologyPath: ont, OutputPath: out})
	assert.Error(t, err, "sat needs a concept")

	_, err = Verify(VerifyRequest{Operation: "sat", OntologyPath: ont, OutputPath: out, Concept: "Calzone"})
	assert.Error(t, err)

	_, err = Verify(VerifyRequest{Operation: "sat", OntologyPath: ont, OutputPath: out, Concept: "Margherita"})
	assert.NoError(t, err)

	_, err = Verify(VerifyRequest{Operation: "sat", OntologyPath: filepath.Join(dir, "none.yaml"), OutputPath: out})
	assert.ErrorIs(t, err, ErrMissing)
}
