package diff

import (
	"context"
	"fmt"

	"github.com/agenthands/ecco/internal/core/model"
)

// MockOracle entails exactly the axioms of its ontology plus the keys in Entailed.
type MockOracle struct {
	Ontology *model.Ontology
	Entailed map[string]bool
	Err      error
	Calls    []string
	Closed   bool
}

func (m *MockOracle) Signature() model.Signature {
	return m.Ontology.Signature()
}

func (m *MockOracle) Entails(ctx context.Context, ax model.Axiom) (bool, error) {
	m.Calls = append(m.Calls, ax.Key())
	if m.Err != nil {
		return false, m.Err
	}
	return m.Ontology.Contains(ax) || m.Entailed[ax.Key()], nil
}

func (m *MockOracle) Close() error {
	m.Closed = true
	return nil
}

type MockLoader struct {
	Entailed map[string]map[string]bool
	Err      error
	Loaded   []*MockOracle
}

func (m *MockLoader) Load(ctx context.Context, o *model.Ontology) (LoadedOracle, error) {
	if m.Err != nil {
		return nil, fmt.Errorf("load %s: %w", o.ID, m.Err)
	}
	oracle := &MockOracle{Ontology: o, Entailed: m.Entailed[o.ID]}
	m.Loaded = append(m.Loaded, oracle)
	return oracle, nil
}
