package reasoner

import (
	"context"

	"github.com/agenthands/ecco/internal/core/model"
)

// Asserted entails exactly the axioms of its ontology.
type Asserted struct {
	ontology *model.Ontology
}

func NewAsserted(o *model.Ontology) *Asserted {
	return &Asserted{ontology: o}
}

func (a *Asserted) Signature() model.Signature { return a.ontology.Signature() }

func (a *Asserted) Entails(ctx context.Context, ax model.Axiom) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return a.ontology.Contains(ax), nil
}

func (a *Asserted) Close() error { return nil }
