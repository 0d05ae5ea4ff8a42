package reasoner

import (
	"context"
	"errors"

	"github.com/agenthands/ecco/internal/core/model"
)

// ErrTimeout is returned when an entailment check exceeds the configured limit.
var ErrTimeout = errors.New("reasoner timed out")

// Reasoner answers entailment queries for the one ontology it was loaded with.
type Reasoner interface {
	Signature() model.Signature
	Entails(ctx context.Context, ax model.Axiom) (bool, error)
	Close() error
}

type Factory interface {
	Load(ctx context.Context, o *model.Ontology) (Reasoner, error)
}
