package diff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agenthands/ecco/internal/core/model"
)

// Oracle answers entailment queries against one ontology snapshot.
type Oracle interface {
	Signature() model.Signature
	Entails(ctx context.Context, ax model.Axiom) (bool, error)
}

// Classifier splits structural changes into effectual and ineffectual ones.
type Classifier struct {
	Logger *slog.Logger
	// AssumeEntailedOnError resolves a failed entailment check as entailed, making the change
	// ineffectual. By default a failure keeps the change effectual.
	AssumeEntailedOnError bool
}

func NewClassifier(logger *slog.Logger) *Classifier {
	return &Classifier{Logger: logger}
}

func (c *Classifier) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Classify checks added axioms against the old oracle and removed axioms against the new one.
// An axiom is ineffectual when the other side knows all its entities and already entails it.
func (c *Classifier) Classify(ctx context.Context, sc *StructuralChangeSet, oldOracle, newOracle Oracle) (*LogicalChangeSet, error) {
	start := time.Now()

	ineffAdds, err := c.ineffectual(ctx, sc.Additions, oldOracle, "addition")
	if err != nil {
		return nil, err
	}
	ineffRems, err := c.ineffectual(ctx, sc.Removals, newOracle, "removal")
	if err != nil {
		return nil, err
	}

	effAdds := prune(sc.Additions.Minus(ineffAdds))
	effRems := prune(sc.Removals.Minus(ineffRems))

	return newLogicalChangeSet(sc.Additions, sc.Removals, effAdds, ineffAdds, effRems, ineffRems, time.Since(start)), nil
}

func (c *Classifier) ineffectual(ctx context.Context, changes model.AxiomSet, oracle Oracle, side string) (model.AxiomSet, error) {
	out := model.AxiomSet{}
	if changes.IsEmpty() {
		return out, nil
	}
	sig := oracle.Signature()

	for _, ax := range changes.Sorted() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("failed to classify %s: %w", side, err)
		}
		if !sig.ContainsAll(ax.Signature()) {
			continue
		}
		entailed, err := oracle.Entails(ctx, ax)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("failed to classify %s: %w", side, ctxErr)
			}
			c.logger().Warn("entailment check failed",
				"change", side,
				"axiom", ax.String(),
				"assume_entailed", c.AssumeEntailedOnError,
				"error", err)
			entailed = c.AssumeEntailedOnError
		}
		if entailed {
			out.Add(ax)
		}
	}
	return out, nil
}
