package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/ecco/internal/driver"
)

// Fixed-width so that stored timestamps order lexically.
const graphTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const defaultGraphLimit = 1000

// GraphStore keeps run history as (:Run)-[:HAS_SOURCE]->(:Source) in a graph database.
type GraphStore struct {
	Driver driver.Querier
}

func NewGraphStore(d driver.Querier) *GraphStore {
	return &GraphStore{Driver: d}
}

func (g *GraphStore) Close(ctx context.Context) error {
	return g.Driver.Close(ctx)
}

func (g *GraphStore) SaveRun(ctx context.Context, run *Run) error {
	sources := make([]map[string]interface{}, len(run.Sources))
	for i, s := range run.Sources {
		sources[i] = map[string]interface{}{
			"id":       s.ID,
			"position": i,
			"status":   s.Status,
			"verdict":  s.Verdict,
			"cluster":  s.Cluster,
		}
	}

	params := map[string]interface{}{
		"id":         run.ID,
		"ontology":   run.Ontology,
		"operation":  run.Operation,
		"mode":       run.Mode,
		"majority":   run.Majority,
		"created_at": run.CreatedAt.UTC().Format(graphTimeLayout),
		"sources":    sources,
	}

	if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, params); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (g *GraphStore) ListRuns(ctx context.Context, ontology string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultGraphLimit
	}
	res, err := g.Driver.ExecuteQuery(ctx, driver.ListRunsQuery, map[string]interface{}{
		"ontology": ontology,
		"limit":    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]Run, 0, len(res.Records))
	for _, rec := range res.Records {
		run, err := runFromRecord(rec)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func runFromRecord(rec *neo4j.Record) (Run, error) {
	var run Run
	run.ID = stringValue(rec, "id")
	run.Ontology = stringValue(rec, "ontology")
	run.Operation = stringValue(rec, "operation")
	run.Mode = stringValue(rec, "mode")

	majority, _ := rec.Get("majority")
	run.Majority = intOf(majority, -1)

	if created := stringValue(rec, "created_at"); created != "" {
		t, err := time.Parse(graphTimeLayout, created)
		if err != nil {
			return Run{}, fmt.Errorf("run %s: invalid created_at %q: %w", run.ID, created, err)
		}
		run.CreatedAt = t
	}

	raw, _ := rec.Get("sources")
	items, _ := raw.([]interface{})
	type positioned struct {
		pos int
		src SourceResult
	}
	var sources []positioned
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		// OPTIONAL MATCH yields one null row for runs without sources.
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}
		status, _ := m["status"].(string)
		verdict, _ := m["verdict"].(string)
		sources = append(sources, positioned{
			pos: intOf(m["position"], 0),
			src: SourceResult{ID: id, Status: status, Verdict: verdict, Cluster: intOf(m["cluster"], -1)},
		})
	}
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].pos < sources[j].pos })
	for _, p := range sources {
		run.Sources = append(run.Sources, p.src)
	}
	return run, nil
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func intOf(v interface{}, fallback int) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return fallback
	}
}
