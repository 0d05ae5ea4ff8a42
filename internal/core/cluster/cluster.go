package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Status int

const (
	StatusOK Status = iota
	StatusUnparseable
	StatusEmpty
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnparseable:
		return "unparseable"
	case StatusEmpty:
		return "empty"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

func (s Status) Valid() bool { return s == StatusOK }

// Verdict cell values of a cluster row.
const (
	VerdictEquivalent  = "true"
	VerdictDifferent   = "false"
	VerdictMissing     = "nofile"
	VerdictUnparseable = "unparseable"
	VerdictEmpty       = "empty"
)

// Source is one engine output. Value is only read when Status is StatusOK.
type Source[T any] struct {
	ID     string
	Status Status
	Value  T
}

// Comparator reports whether two source values are indistinguishable.
type Comparator[T any] func(ctx context.Context, a, b T) (bool, error)

type Clusterer[T any] interface {
	Cluster(ctx context.Context, sources []Source[T]) (*Result, error)
}

type Mode string

const (
	ModeGreedy  Mode = "greedy"
	ModeClosure Mode = "closure"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeGreedy:
		return ModeGreedy, nil
	case ModeClosure:
		return ModeClosure, nil
	default:
		return "", fmt.Errorf("unknown clustering mode %q", s)
	}
}

// New returns the clusterer for mode.
func New[T any](mode Mode, compare Comparator[T], concurrency int, logger *slog.Logger) (Clusterer[T], error) {
	switch mode {
	case "", ModeGreedy:
		return &Greedy[T]{Compare: compare, Concurrency: concurrency, Logger: logger}, nil
	case ModeClosure:
		return &Closure[T]{Compare: compare, Concurrency: concurrency, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown clustering mode %q", mode)
	}
}

// Result is a partition of the valid sources plus the status of every source.
type Result struct {
	// Clusters are in seeding order; members keep input order.
	Clusters [][]string
	// Majority indexes the largest cluster, the earliest one on ties. It is -1 when no source
	// was valid.
	Majority int
	Statuses map[string]Status
}

func newResult(clusters [][]string, statuses map[string]Status) *Result {
	r := &Result{Clusters: clusters, Majority: -1, Statuses: statuses}
	for i, c := range clusters {
		if r.Majority < 0 || len(c) > len(clusters[r.Majority]) {
			r.Majority = i
		}
	}
	return r
}

func (r *Result) MajorityCluster() []string {
	if r.Majority < 0 {
		return nil
	}
	return r.Clusters[r.Majority]
}

// ClusterOf returns the index of the cluster holding id, or -1.
func (r *Result) ClusterOf(id string) int {
	for i, c := range r.Clusters {
		for _, member := range c {
			if member == id {
				return i
			}
		}
	}
	return -1
}

// Verdict is the row cell for id: whether it agrees with the majority, or why it could not be
// compared. Ids the result has never seen are missing.
func (r *Result) Verdict(id string) string {
	status, ok := r.Statuses[id]
	if !ok {
		return VerdictMissing
	}
	switch status {
	case StatusMissing:
		return VerdictMissing
	case StatusUnparseable:
		return VerdictUnparseable
	case StatusEmpty:
		return VerdictEmpty
	}
	if r.Majority >= 0 && r.ClusterOf(id) == r.Majority {
		return VerdictEquivalent
	}
	return VerdictDifferent
}

// Verdicts returns one cell per id, in order.
func (r *Result) Verdicts(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = r.Verdict(id)
	}
	return out
}

// partition validates sources and returns the comparable ones with the full status map.
func partition[T any](sources []Source[T]) ([]Source[T], map[string]Status, error) {
	statuses := make(map[string]Status, len(sources))
	valid := make([]Source[T], 0, len(sources))
	for _, s := range sources {
		if _, dup := statuses[s.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate source id %q", s.ID)
		}
		statuses[s.ID] = s.Status
		if s.Status.Valid() {
			valid = append(valid, s)
		}
	}
	return valid, statuses, nil
}

// compareAll compares every pair in parallel, at most limit at a time, and returns the
// answers in pair order. A failed comparison counts as not equivalent.
func compareAll[T any](ctx context.Context, compare Comparator[T], pairs [][2]Source[T], limit int, logger *slog.Logger) ([]bool, error) {
	out := make([]bool, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, p := range pairs {
		g.Go(func() error {
			same, err := compare(gctx, p[0].Value, p[1].Value)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("comparison failed", "left", p[0].ID, "right", p[1].ID, "error", err)
				return nil
			}
			out[i] = same
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compare sources: %w", err)
	}
	return out, nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
