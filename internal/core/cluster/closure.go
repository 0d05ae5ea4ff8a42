package cluster

import (
	"context"
	"log/slog"
	"sort"
)

// Closure compares every pair of valid sources and clusters the connected components of the
// equivalence graph. It costs n(n-1)/2 comparisons.
type Closure[T any] struct {
	Compare     Comparator[T]
	Concurrency int
	Logger      *slog.Logger
}

func NewClosure[T any](compare Comparator[T]) *Closure[T] {
	return &Closure[T]{Compare: compare, Concurrency: 1}
}

func (c *Closure[T]) Cluster(ctx context.Context, sources []Source[T]) (*Result, error) {
	valid, statuses, err := partition(sources)
	if err != nil {
		return nil, err
	}

	var pairs [][2]Source[T]
	for i := range valid {
		for j := i + 1; j < len(valid); j++ {
			pairs = append(pairs, [2]Source[T]{valid[i], valid[j]})
		}
	}
	same, err := compareAll(ctx, c.Compare, pairs, c.Concurrency, loggerOrDefault(c.Logger))
	if err != nil {
		return nil, err
	}

	order := make(map[string]int, len(valid))
	for i, s := range valid {
		order[s.ID] = i
	}
	adj := make(map[string][]string)
	for i, p := range pairs {
		if same[i] {
			adj[p[0].ID] = append(adj[p[0].ID], p[1].ID)
			adj[p[1].ID] = append(adj[p[1].ID], p[0].ID)
		}
	}

	visited := make(map[string]bool)
	var clusters [][]string
	for _, s := range valid {
		if visited[s.ID] {
			continue
		}
		var component []string
		dfs(s.ID, adj, visited, &component)
		sort.Slice(component, func(i, j int) bool { return order[component[i]] < order[component[j]] })
		clusters = append(clusters, component)
	}

	return newResult(clusters, statuses), nil
}

func dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			dfs(v, adj, visited, component)
		}
	}
}
