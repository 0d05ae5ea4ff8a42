package diff

import (
	"context"
	"fmt"

	"github.com/agenthands/ecco/internal/core/model"
)

// LoadedOracle is an oracle bound to resources that must be released after use.
type LoadedOracle interface {
	Oracle
	Close() error
}

type OracleLoader interface {
	Load(ctx context.Context, o *model.Ontology) (LoadedOracle, error)
}

type LoaderFunc func(ctx context.Context, o *model.Ontology) (LoadedOracle, error)

func (f LoaderFunc) Load(ctx context.Context, o *model.Ontology) (LoadedOracle, error) {
	return f(ctx, o)
}

// Result is the outcome of a two-level comparison. Logical is nil when the structural diff is
// empty, in which case ChangeSet is the structural one.
type Result struct {
	Structural *StructuralChangeSet
	Logical    *LogicalChangeSet
	ChangeSet  ChangeSet
}

// Compare runs the two-level diff with a default classifier.
func Compare(ctx context.Context, older, newer *model.Ontology, loader OracleLoader) (*Result, error) {
	return NewClassifier(nil).Compare(ctx, older, newer, loader)
}

// Compare diffs two ontologies structurally and, when they differ, loads one oracle per side
// to classify the changes. Oracles are closed before Compare returns.
func (c *Classifier) Compare(ctx context.Context, older, newer *model.Ontology, loader OracleLoader) (*Result, error) {
	sc := Structural(older, newer)
	if sc.IsEmpty() {
		return &Result{Structural: sc, ChangeSet: FromStructural(sc)}, nil
	}

	oldOracle, err := loader.Load(ctx, older)
	if err != nil {
		return nil, fmt.Errorf("failed to load oracle for %s: %w", older.ID, err)
	}
	defer c.close(oldOracle, older.ID)

	newOracle, err := loader.Load(ctx, newer)
	if err != nil {
		return nil, fmt.Errorf("failed to load oracle for %s: %w", newer.ID, err)
	}
	defer c.close(newOracle, newer.ID)

	lc, err := c.Classify(ctx, sc, oldOracle, newOracle)
	if err != nil {
		return nil, err
	}
	return &Result{Structural: sc, Logical: lc, ChangeSet: FromLogical(lc)}, nil
}

func (c *Classifier) close(o LoadedOracle, id string) {
	if err := o.Close(); err != nil {
		c.logger().Warn("failed to close oracle", "ontology", id, "error", err)
	}
}
