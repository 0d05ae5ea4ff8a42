package core

import (
	"context"

	"github.com/agenthands/ecco/internal/core/model"
	"github.com/agenthands/ecco/internal/reasoner"
	"github.com/agenthands/ecco/internal/store"
)

type MockFactory struct {
	Loaded []string
	Err    error
}

func (m *MockFactory) Load(ctx context.Context, o *model.Ontology) (reasoner.Reasoner, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Loaded = append(m.Loaded, o.ID)
	return reasoner.NewAsserted(o), nil
}

type MockStore struct {
	Runs   []store.Run
	Err    error
	Closed bool
}

func (m *MockStore) SaveRun(ctx context.Context, run *store.Run) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, *run)
	return nil
}

func (m *MockStore) ListRuns(ctx context.Context, ontology string, limit int) ([]store.Run, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []store.Run
	for i := len(m.Runs) - 1; i >= 0; i-- {
		if ontology == "" || m.Runs[i].Ontology == ontology {
			out = append(out, m.Runs[i])
		}
	}
	return out, nil
}

func (m *MockStore) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}
