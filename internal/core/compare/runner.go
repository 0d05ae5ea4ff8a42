package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agenthands/ecco/internal/core/cluster"
	"github.com/agenthands/ecco/internal/metrics"
)

// Input names one source and the path of its output.
type Input struct {
	ID   string
	Path string
}

// ParseInputs reads `id=path` arguments. A bare path takes its id from the directory depth
// levels above the file.
func ParseInputs(args []string, depth int) ([]Input, error) {
	out := make([]Input, 0, len(args))
	for _, arg := range args {
		if id, path, ok := strings.Cut(arg, "="); ok {
			if id == "" || path == "" {
				return nil, fmt.Errorf("invalid source %q", arg)
			}
			out = append(out, Input{ID: id, Path: path})
			continue
		}
		id, err := SourceID(arg, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, Input{ID: id, Path: arg})
	}
	return out, nil
}

// SourceID returns the name of the directory depth levels above path. Result trees are laid
// out as <reasoner>/<...>/<ontology>/<file>, so depth 3 yields the reasoner.
func SourceID(path string, depth int) (string, error) {
	if depth < 1 {
		return "", fmt.Errorf("invalid id depth %d", depth)
	}
	dir := filepath.Clean(path)
	for i := 0; i < depth; i++ {
		dir = filepath.Dir(dir)
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("cannot derive a source id %d levels above %s", depth, path)
	}
	return name, nil
}

// OntologyName is the parent directory of the first input that exists.
func OntologyName(inputs []Input) string {
	for _, in := range inputs {
		if _, err := os.Stat(in.Path); err == nil {
			return filepath.Base(filepath.Dir(in.Path))
		}
	}
	return ""
}

type Runner struct {
	Mode        cluster.Mode
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

func NewRunner(mode cluster.Mode, concurrency int, logger *slog.Logger, m *metrics.Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Mode: mode, Concurrency: concurrency, Logger: logger, Metrics: m}
}

// Load reads every input. Unusable inputs keep their status and never fail the run.
func (r *Runner) Load(op Operation, inputs []Input) []cluster.Source[*Output] {
	sources := make([]cluster.Source[*Output], 0, len(inputs))
	for _, in := range inputs {
		out, status, err := op.Load(in.Path)
		if err != nil {
			r.logger().Warn("source not comparable",
				"source", in.ID,
				"path", in.Path,
				"status", status.String(),
				"error", err)
		}
		r.Metrics.CountSource(status.String())
		sources = append(sources, cluster.Source[*Output]{ID: in.ID, Status: status, Value: out})
	}
	return sources
}

// Run loads the inputs and clusters the comparable ones.
func (r *Runner) Run(ctx context.Context, op Operation, inputs []Input) (*cluster.Result, error) {
	sources := r.Load(op, inputs)

	compareFn := func(ctx context.Context, a, b *Output) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		same, err := op.Equivalent(ctx, a, b)
		if err != nil {
			return false, err
		}
		r.Metrics.CountComparison(op.Name(), same)
		if !same {
			r.logger().Debug("outputs differ", "operation", op.Name(), "left", a.Path, "right", b.Path)
		}
		return same, nil
	}

	clusterer, err := cluster.New(r.Mode, compareFn, r.Concurrency, r.logger())
	if err != nil {
		return nil, err
	}
	res, err := clusterer.Cluster(ctx, sources)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to cluster %s outputs: %w", op.Name(), err)
	}

	r.logger().Info("comparison finished",
		"operation", op.Name(),
		"sources", len(inputs),
		"clusters", len(res.Clusters),
		"majority", res.MajorityCluster())
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
