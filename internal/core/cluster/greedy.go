package cluster

import (
	"context"
	"log/slog"
)

// Greedy seeds a cluster with the first unclustered source and absorbs every remaining source
// equivalent to the seed. A source that joins is never compared again, so the partition is
// sound but not necessarily maximal.
//
// With Concurrency above one the comparisons against a seed run in parallel; joins are still
// applied in input order once the round completes, so the partition does not depend on it.
type Greedy[T any] struct {
	Compare     Comparator[T]
	Concurrency int
	Logger      *slog.Logger
}

func NewGreedy[T any](compare Comparator[T]) *Greedy[T] {
	return &Greedy[T]{Compare: compare, Concurrency: 1}
}

func (g *Greedy[T]) Cluster(ctx context.Context, sources []Source[T]) (*Result, error) {
	valid, statuses, err := partition(sources)
	if err != nil {
		return nil, err
	}
	logger := loggerOrDefault(g.Logger)

	var clusters [][]string
	pending := valid
	for len(pending) > 0 {
		seed, rest := pending[0], pending[1:]

		pairs := make([][2]Source[T], len(rest))
		for i, t := range rest {
			pairs[i] = [2]Source[T]{seed, t}
		}
		same, err := compareAll(ctx, g.Compare, pairs, g.Concurrency, logger)
		if err != nil {
			return nil, err
		}

		members := []string{seed.ID}
		var next []Source[T]
		for i, t := range rest {
			if same[i] {
				members = append(members, t.ID)
			} else {
				next = append(next, t)
			}
		}
		logger.Debug("cluster formed", "seed", seed.ID, "size", len(members), "remaining", len(next))
		clusters = append(clusters, members)
		pending = next
	}

	return newResult(clusters, statuses), nil
}
