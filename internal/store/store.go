package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/ecco/internal/config"
	"github.com/agenthands/ecco/internal/core/cluster"
	"github.com/agenthands/ecco/internal/driver"
)

// SourceResult is how one source fared in a comparison run.
type SourceResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Verdict string `json:"verdict"`
	// Cluster indexes the run's clusters, -1 for sources that could not be compared.
	Cluster int `json:"cluster"`
}

// Run is a stored multi-source comparison.
type Run struct {
	ID        string         `json:"id"`
	Ontology  string         `json:"ontology"`
	Operation string         `json:"operation"`
	Mode      string         `json:"mode"`
	Majority  int            `json:"majority"`
	CreatedAt time.Time      `json:"created_at"`
	Sources   []SourceResult `json:"sources"`
}

// NewRun records res for the sources ids, in that order.
func NewRun(ontology, operation string, mode cluster.Mode, res *cluster.Result, ids []string) *Run {
	run := &Run{
		ID:        uuid.New().String(),
		Ontology:  ontology,
		Operation: operation,
		Mode:      string(mode),
		Majority:  res.Majority,
		CreatedAt: time.Now().UTC(),
		Sources:   make([]SourceResult, 0, len(ids)),
	}
	for _, id := range ids {
		status, ok := res.Statuses[id]
		if !ok {
			status = cluster.StatusMissing
		}
		run.Sources = append(run.Sources, SourceResult{
			ID:      id,
			Status:  status.String(),
			Verdict: res.Verdict(id),
			Cluster: res.ClusterOf(id),
		})
	}
	return run
}

// MajorityIDs returns the sources of the majority cluster in column order.
func (r *Run) MajorityIDs() []string {
	var out []string
	if r.Majority < 0 {
		return out
	}
	for _, s := range r.Sources {
		if s.Cluster == r.Majority {
			out = append(out, s.ID)
		}
	}
	return out
}

// Store persists comparison runs.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	// ListRuns returns the newest runs first. An empty ontology matches every run.
	ListRuns(ctx context.Context, ontology string, limit int) ([]Run, error)
	Close(ctx context.Context) error
}

// Open returns the configured backend, or nil when run history is disabled.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "":
		return nil, nil
	case "sqlite":
		return NewSQLiteStore(cfg.SQLite.Path)
	case "memgraph":
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to memgraph: %w", err)
		}
		s := NewGraphStore(d)
		if err := d.BuildIndices(ctx); err != nil {
			d.Close(ctx)
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
