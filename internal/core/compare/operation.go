package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/ecco/internal/core/cluster"
	"github.com/agenthands/ecco/internal/core/diff"
	"github.com/agenthands/ecco/internal/core/loader"
	"github.com/agenthands/ecco/internal/core/model"
)

var ErrUnknownOperation = errors.New("unknown operation")

// Output is one engine's result for an operation. Classification outputs carry an ontology of
// inferred axioms; sat and consistency outputs carry a result table.
type Output struct {
	Path     string
	Ontology *model.Ontology
	Table    *loader.Table
}

// Operation loads the outputs of one reasoning task and decides when two of them agree.
type Operation interface {
	Name() string
	// Load reads one output. Failures are reported through the status; the error explains it.
	Load(path string) (*Output, cluster.Status, error)
	Equivalent(ctx context.Context, a, b *Output) (bool, error)
}

// ParseOperation selects the strategy for name. Classification needs an oracle loader.
func ParseOperation(name string, classifier *diff.Classifier, oracles diff.OracleLoader) (Operation, error) {
	switch strings.ToLower(name) {
	case "classification":
		if oracles == nil {
			return nil, fmt.Errorf("classification needs an oracle loader")
		}
		if classifier == nil {
			classifier = diff.NewClassifier(nil)
		}
		return &Classification{Classifier: classifier, Oracles: oracles}, nil
	case "sat", "query":
		return Satisfiability{name: strings.ToLower(name)}, nil
	case "consistency":
		return Consistency{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
}

func statusOf(err error) cluster.Status {
	if errors.Is(err, loader.ErrMissing) {
		return cluster.StatusMissing
	}
	return cluster.StatusUnparseable
}

// Classification compares inferred class hierarchies with the two-level diff: outputs agree
// when their logical diff has no effectual change.
type Classification struct {
	Classifier *diff.Classifier
	Oracles    diff.OracleLoader
}

func (c *Classification) Name() string { return "classification" }

func (c *Classification) Load(path string) (*Output, cluster.Status, error) {
	o, err := loader.LoadOntology(path)
	if err != nil {
		return nil, statusOf(err), err
	}
	if o.LogicalAxioms().IsEmpty() {
		return nil, cluster.StatusEmpty, fmt.Errorf("%s: %w", path, loader.ErrEmpty)
	}
	return &Output{Path: path, Ontology: o}, cluster.StatusOK, nil
}

func (c *Classification) Equivalent(ctx context.Context, a, b *Output) (bool, error) {
	res, err := c.Classifier.Compare(ctx, a.Ontology, b.Ontology, c.Oracles)
	if err != nil {
		return false, err
	}
	return res.ChangeSet.IsEmpty(), nil
}

func loadTable(path string) (*Output, cluster.Status, error) {
	t, err := loader.LoadTable(path)
	if err != nil {
		return nil, statusOf(err), err
	}
	if t.IsEmpty() {
		return nil, cluster.StatusEmpty, fmt.Errorf("%s: %w", path, loader.ErrEmpty)
	}
	return &Output{Path: path, Table: t}, cluster.StatusOK, nil
}

// Satisfiability compares `concept,result` tables row by row. Two tables disagree when a row
// names the same concept with a different result; rows past the shorter table are ignored.
type Satisfiability struct {
	name string
}

func (s Satisfiability) Name() string {
	if s.name == "" {
		return "sat"
	}
	return s.name
}

func (s Satisfiability) Load(path string) (*Output, cluster.Status, error) { return loadTable(path) }

func (s Satisfiability) Equivalent(ctx context.Context, a, b *Output) (bool, error) {
	ra, rb := a.Table.Rows, b.Table.Rows
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if cell(ra[i], 0) == cell(rb[i], 0) && cell(ra[i], 1) != cell(rb[i], 1) {
			return false, nil
		}
	}
	return true, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Consistency compares result tables line by line over their common length.
type Consistency struct{}

func (Consistency) Name() string { return "consistency" }

func (Consistency) Load(path string) (*Output, cluster.Status, error) { return loadTable(path) }

func (Consistency) Equivalent(ctx context.Context, a, b *Output) (bool, error) {
	la, lb := a.Table.Lines(), b.Table.Lines()
	for i := 0; i < len(la) && i < len(lb); i++ {
		if la[i] != lb[i] {
			return false, nil
		}
	}
	return true, nil
}
